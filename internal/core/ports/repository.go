package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
)

// FacilityRepository reads facility records owned by an external
// service. Implementations return domain.ErrFacilityNotBookable for
// missing, inactive or unverified facilities.
type FacilityRepository interface {
	GetBookable(ctx context.Context, id uuid.UUID) (*domain.Facility, error)
}

// BookingRepository is the transactional authority over bookings. The
// write methods run their checks and mutations inside a single
// storage transaction.
type BookingRepository interface {
	// Create re-validates the slot conflict and the user quota at
	// commit time, runs the code-collision retry loop with nextCode,
	// and returns the exact persisted row.
	Create(ctx context.Context, b *domain.Booking, quota domain.UserQuota, nextCode func() string, maxCodeAttempts int) (*domain.Booking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int64, error)
	ActiveByFacilityDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]domain.Booking, error)
	CountActiveForUser(ctx context.Context, userID uuid.UUID, from time.Time) (int64, error)

	// Confirm applies pending -> confirmed and records the verified
	// payment in the same transaction. eventID deduplicates redelivered
	// payment events.
	Confirm(ctx context.Context, id uuid.UUID, paymentRef string, amount float64, eventID string, now time.Time) (*domain.Booking, error)

	// Cancel locks the row, runs check against current state, applies
	// the cancellation and marks any completed payment refunded, all in
	// one transaction.
	Cancel(ctx context.Context, id uuid.UUID, reason string, now time.Time, check domain.TransitionCheck) (*domain.Booking, error)

	Complete(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// StalePending lists pending bookings created before cutoff, for
	// the expiry worker.
	StalePending(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

// EventPublisher emits fire-and-forget booking events. Failures are
// logged by callers, never propagated into the originating operation.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Clock supplies the current instant so date policy is testable.
type Clock interface {
	Now() time.Time
}
