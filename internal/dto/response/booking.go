package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

// UnknownClientName labels bookings that have no client attached
const UnknownClientName = "Unknown"

type BookingResponse struct {
	ID         string               `json:"id"`
	ClientID   *string              `json:"clientId,omitempty"`
	ClientName string               `json:"clientName"`
	EventName  string               `json:"eventName"`
	EventDate  string               `json:"eventDate"`
	EventTime  *string              `json:"eventTime,omitempty"`
	Duration   *float64             `json:"duration,omitempty"`
	Location   *string              `json:"location,omitempty"`
	Status     entity.BookingStatus `json:"status"`
	Notes      *string              `json:"notes,omitempty"`
	Amount     *float64             `json:"amount,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

type ConflictingBooking struct {
	ID         string   `json:"id"`
	EventName  string   `json:"eventName"`
	EventTime  *string  `json:"eventTime"`
	Duration   *float64 `json:"duration"`
	ClientName string   `json:"clientName"`
}

type ConflictResponse struct {
	HasConflict         bool                 `json:"hasConflict"`
	ConflictingBookings []ConflictingBooking `json:"conflictingBookings"`
}

type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	Duration       float64  `json:"duration"`
	AvailableSlots []string `json:"availableSlots"`
}

type BookingStatsResponse struct {
	Total     int     `json:"total"`
	Pending   int     `json:"pending"`
	Confirmed int     `json:"confirmed"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

type ReceiptResponse struct {
	BookingID string `json:"bookingId"`
	SentTo    string `json:"sentTo"`
	MessageID string `json:"messageId"`
}

func ClientNameOf(b *entity.Booking) string {
	if b.ClientName == nil || *b.ClientName == "" {
		return UnknownClientName
	}
	return *b.ClientName
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		ClientName: ClientNameOf(b),
		EventName:  b.EventName,
		EventDate:  b.EventDate.Format("2006-01-02"),
		EventTime:  b.EventTime,
		Duration:   b.Duration,
		Location:   b.Location,
		Status:     b.Status,
		Notes:      b.Notes,
		Amount:     b.Amount,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.ClientID != nil {
		id := b.ClientID.String()
		resp.ClientID = &id
	}
	return resp
}

func ConflictsToResponse(conflicts []*entity.Booking) *ConflictResponse {
	resp := &ConflictResponse{
		HasConflict:         len(conflicts) > 0,
		ConflictingBookings: make([]ConflictingBooking, 0, len(conflicts)),
	}
	for _, b := range conflicts {
		resp.ConflictingBookings = append(resp.ConflictingBookings, ConflictingBooking{
			ID:         b.ID.String(),
			EventName:  b.EventName,
			EventTime:  b.EventTime,
			Duration:   b.Duration,
			ClientName: ClientNameOf(b),
		})
	}
	return resp
}

func StatsToResponse(s *entity.BookingStats) BookingStatsResponse {
	return BookingStatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Confirmed: s.Confirmed,
		Completed: s.Completed,
		Cancelled: s.Cancelled,
		Revenue:   s.Revenue,
	}
}
