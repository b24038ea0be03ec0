package domain

import "time"

// DateLayout is the wire format for all check-in/check-out dates.
const DateLayout = "2006-01-02"

// BookingStatus values form a tiny state machine: confirmed may move to
// cancelled or completed; both of those are terminal.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// CanTransitionTo reports whether the status change is legal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == StatusConfirmed && (next == StatusCancelled || next == StatusCompleted)
}

// Stay is a half-open [CheckIn, CheckOut) range of nights. Both bounds
// are dates at UTC midnight.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights returns CheckOut - CheckIn in whole days.
func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

// Overlaps is the canonical half-open interval test: two stays share at
// least one night iff each starts before the other ends. It subsumes
// containment, partial overlap and exact match.
func (s Stay) Overlaps(o Stay) bool {
	return s.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(s.CheckOut)
}

// ContainsDay reports whether day falls inside [CheckIn, CheckOut].
// The checkout day counts: a guest leaving today still holds the room
// this morning, which is the rule the cached availability flag follows.
func (s Stay) ContainsDay(day time.Time) bool {
	return !day.Before(s.CheckIn) && !day.After(s.CheckOut)
}

type Booking struct {
	ID          int64
	RoomID      int64
	GuestName   string
	GuestEmail  string
	GuestPhone  string
	Stay        Stay
	TotalAmount float64 // nights x price at booking time, frozen
	Status      BookingStatus
	CreatedAt   time.Time
}

// NewBooking carries the fields of a booking about to be inserted.
// Today drives the cached room flag recompute inside the same
// transaction as the insert.
type NewBooking struct {
	RoomID      int64
	GuestName   string
	GuestEmail  string
	GuestPhone  string
	Stay        Stay
	TotalAmount float64
	Today       time.Time
}
