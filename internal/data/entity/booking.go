package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsActive reports whether a booking in this status still occupies its time slot
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a scheduled shoot. EventDate carries only the calendar day; EventTime is "HH:MM".
type Booking struct {
	Base
	UserID    uuid.UUID     `db:"user_id"`
	ClientID  *uuid.UUID    `db:"client_id"`
	EventName string        `db:"event_name"`
	EventDate time.Time     `db:"event_date"`
	EventTime *string       `db:"event_time"`
	Duration  *float64      `db:"duration"`
	Location  *string       `db:"location"`
	Status    BookingStatus `db:"status"`
	Notes     *string       `db:"notes"`
	Amount    *float64      `db:"amount"`

	// joined from clients, nil when the booking has no client
	ClientName  *string `db:"client_name"`
	ClientEmail *string `db:"client_email"`
}

// BookingStats aggregates an owner's bookings by status. Revenue sums the amount of every booking.
type BookingStats struct {
	Total     int     `db:"total"`
	Pending   int     `db:"pending"`
	Confirmed int     `db:"confirmed"`
	Completed int     `db:"completed"`
	Cancelled int     `db:"cancelled"`
	Revenue   float64 `db:"revenue"`
}
