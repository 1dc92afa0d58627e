package request

// BookingRequest is the body of both create and full update. Status defaults to pending on create.
type BookingRequest struct {
	ClientID  *string  `json:"clientId,omitempty" validate:"omitempty,uuid"`
	EventName string   `json:"eventName" validate:"required,max=200"`
	EventDate string   `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventTime *string  `json:"eventTime,omitempty" validate:"omitempty,datetime=15:04"`
	Duration  *float64 `json:"duration,omitempty" validate:"omitempty,gt=0,lte=24"`
	Location  *string  `json:"location,omitempty" validate:"omitempty,max=300"`
	Status    string   `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes     *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Amount    *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// CheckConflictRequest asks whether a booking could be placed. ExcludeID leaves one booking
// out of the comparison, so a booking being edited does not collide with itself.
type CheckConflictRequest struct {
	EventDate string  `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventTime string  `json:"eventTime" validate:"required,datetime=15:04"`
	Duration  float64 `json:"duration" validate:"required,gt=0,lte=24"`
	ExcludeID *string `json:"excludeId,omitempty" validate:"omitempty,uuid"`
}

type AvailableSlotsRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Duration float64 `json:"duration" validate:"gt=0,lte=24"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
}
