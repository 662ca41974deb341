package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// transitions is the full state machine. Cancelled and completed are
// terminal.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled, BookingCompleted},
}

// CanTransition reports whether moving from s to next is legal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID               uuid.UUID
	Code             string
	FacilityID       uuid.UUID
	UserID           uuid.UUID
	Date             time.Time // calendar date, midnight in the platform timezone
	StartMinute      int       // minutes since midnight
	EndMinute        int
	DurationMinutes  int
	TotalAmount      float64
	CommissionAmount float64
	Status           BookingStatus
	SpecialRequest   *string
	CancelReason     *string
	PaymentRef       *string
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
}

// IsActive reports whether the booking counts toward conflicts and
// per-user limits.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanBeCancelled reports whether any actor may still cancel.
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransition(BookingCancelled)
}

// StartsAt returns the absolute start instant in loc. Date carries a
// calendar date, so its own location is irrelevant.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), b.StartMinute/60, b.StartMinute%60, 0, 0, loc)
}

// MarkConfirmed applies pending -> confirmed.
func (b *Booking) MarkConfirmed(now time.Time) error {
	if !b.Status.CanTransition(BookingConfirmed) {
		return ErrInvalidTransition
	}
	b.Status = BookingConfirmed
	b.ConfirmedAt = &now
	return nil
}

// MarkCancelled applies pending|confirmed -> cancelled and records the
// reason. Policy checks belong to the caller.
func (b *Booking) MarkCancelled(reason string, now time.Time) error {
	if !b.Status.CanTransition(BookingCancelled) {
		return ErrInvalidTransition
	}
	b.Status = BookingCancelled
	if reason != "" {
		b.CancelReason = &reason
	}
	b.CancelledAt = &now
	return nil
}

// MarkCompleted applies confirmed -> completed.
func (b *Booking) MarkCompleted() error {
	if !b.Status.CanTransition(BookingCompleted) {
		return ErrInvalidTransition
	}
	b.Status = BookingCompleted
	return nil
}

// Actor identifies who requested a transition.
type Actor struct {
	ID    uuid.UUID
	Admin bool
}

// TransitionCheck is evaluated against the locked row inside the
// transition transaction, so policy decisions see current state.
type TransitionCheck func(*Booking) error

// UserQuota caps a user's active bookings dated From or later.
// MaxActive <= 0 disables the cap.
type UserQuota struct {
	From      time.Time
	MaxActive int
}

// BookingFilter is a typed query filter; nil fields are not applied.
type BookingFilter struct {
	UserID     *uuid.UUID
	FacilityID *uuid.UUID
	Status     *BookingStatus
	Date       *time.Time
	Page       int32
	PageSize   int32
}

// Slot is one bookable candidate interval derived from operating hours.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}
