package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/ports"
)

// systemActor cancels on behalf of the platform (expiry worker).
var systemActor = domain.Actor{Admin: true}

// LifecycleService drives booking status transitions: confirmation on
// verified payment, cancellation under the notice policy, completion,
// and expiry of stale pending bookings.
type LifecycleService struct {
	bookings ports.BookingRepository
	events   ports.EventPublisher
	clock    ports.Clock
	policy   Policy
}

func NewLifecycleService(bookings ports.BookingRepository, events ports.EventPublisher, clock ports.Clock, policy Policy) *LifecycleService {
	return &LifecycleService{bookings: bookings, events: events, clock: clock, policy: policy}
}

// Confirm applies pending -> confirmed after the payment collaborator
// reports a verified payment. eventID makes redelivered events no-ops.
func (s *LifecycleService) Confirm(ctx context.Context, bookingID uuid.UUID, paymentRef string, amount float64, eventID string) (*domain.Booking, error) {
	b, err := s.bookings.Confirm(ctx, bookingID, paymentRef, amount, eventID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, RKBookingConfirmed, map[string]any{
		"booking_id": b.ID.String(),
		"user_id":    b.UserID.String(),
	})
	return b, nil
}

// Cancel applies pending|confirmed -> cancelled. Non-admin actors must
// give a reason and respect the cancellation-notice window. A completed
// payment is marked refunded in the same transaction as the status
// change.
func (s *LifecycleService) Cancel(ctx context.Context, bookingID uuid.UUID, actor domain.Actor, reason string) (*domain.Booking, error) {
	now := s.clock.Now().In(s.policy.Location)
	notice := time.Duration(s.policy.CancellationNoticeHours) * time.Hour

	check := func(b *domain.Booking) error {
		if !b.CanBeCancelled() {
			return domain.ErrInvalidTransition
		}
		if actor.Admin {
			return nil
		}
		if b.StartsAt(s.policy.Location).Sub(now) < notice {
			return domain.ErrCancellationNotice
		}
		if strings.TrimSpace(reason) == "" {
			return domain.ErrReasonRequired
		}
		return nil
	}

	b, err := s.bookings.Cancel(ctx, bookingID, reason, now, check)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, RKBookingCancelled, map[string]any{
		"booking_id": b.ID.String(),
		"user_id":    b.UserID.String(),
	})
	return b, nil
}

// Complete marks a confirmed booking as played. Administrative only;
// nothing in the engine triggers it automatically.
func (s *LifecycleService) Complete(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.bookings.Complete(ctx, bookingID)
}

// RunExpiryWorker cancels pending bookings whose payment never arrived,
// releasing their slots. Each expiry goes through the normal cancel
// path in its own transaction.
func (s *LifecycleService) RunExpiryWorker(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	log.Printf("expiry worker started: pending bookings older than %s are released", s.policy.PendingExpiry)

	for {
		select {
		case <-ctx.Done():
			log.Println("expiry worker stopped")
			return
		case <-ticker.C:
			s.expireStalePending(ctx)
		}
	}
}

func (s *LifecycleService) expireStalePending(ctx context.Context) {
	cutoff := s.clock.Now().Add(-s.policy.PendingExpiry)

	ids, err := s.bookings.StalePending(ctx, cutoff, 100)
	if err != nil {
		log.Printf("expiry scan failed: %v", err)
		return
	}

	for _, id := range ids {
		if _, err := s.Cancel(ctx, id, systemActor, "payment not completed in time"); err != nil {
			log.Printf("expire booking %s: %v", id, err)
		} else {
			log.Printf("booking %s expired, slot released", id)
		}
	}
}

func (s *LifecycleService) publish(ctx context.Context, key string, v any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, key, v); err != nil {
		log.Printf("publish %s: %v", key, err)
	}
}
