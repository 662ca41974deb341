package services_test

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
)

func newSeededSource() rand.Source {
	return rand.NewSource(1)
}

// memLedger is an in-memory BookingRepository whose Create mirrors the
// storage contract: conflict re-check, quota re-check, code uniqueness
// and insert as one critical section. It lets the exactly-one-winner
// and refund properties run without a database.
type memLedger struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*domain.Booking
	payments map[uuid.UUID]*domain.Payment // keyed by booking id
	events   map[string]bool
}

func newMemLedger() *memLedger {
	return &memLedger{
		bookings: map[uuid.UUID]*domain.Booking{},
		payments: map[uuid.UUID]*domain.Payment{},
		events:   map[string]bool{},
	}
}

func (m *memLedger) Create(_ context.Context, b *domain.Booking, quota domain.UserQuota, nextCode func() string, maxCodeAttempts int) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.bookings {
		if other.IsActive() && other.FacilityID == b.FacilityID && other.Date.Equal(b.Date) &&
			domain.Overlaps(b.StartMinute, b.EndMinute, other.StartMinute, other.EndMinute) {
			return nil, domain.ErrSlotConflict
		}
	}

	if quota.MaxActive > 0 {
		var active int64
		for _, other := range m.bookings {
			if other.IsActive() && other.UserID == b.UserID && !other.Date.Before(quota.From) {
				active++
			}
		}
		if active >= int64(quota.MaxActive) {
			return nil, domain.ErrUserBookingLimit
		}
	}

	code := ""
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		candidate := nextCode()
		if !m.codeTaken(candidate) {
			code = candidate
			break
		}
	}
	if code == "" {
		return nil, domain.ErrCodeGenerationFailed
	}

	stored := *b
	stored.Code = code
	m.bookings[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (m *memLedger) codeTaken(code string) bool {
	for _, b := range m.bookings {
		if b.Code == code {
			return true
		}
	}
	return false
}

func (m *memLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (m *memLedger) List(_ context.Context, f domain.BookingFilter) ([]domain.Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Booking
	for _, b := range m.bookings {
		if f.UserID != nil && b.UserID != *f.UserID {
			continue
		}
		if f.FacilityID != nil && b.FacilityID != *f.FacilityID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (m *memLedger) ActiveByFacilityDate(_ context.Context, facilityID uuid.UUID, date time.Time) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Booking
	for _, b := range m.bookings {
		if b.IsActive() && b.FacilityID == facilityID && b.Date.Equal(date) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memLedger) CountActiveForUser(_ context.Context, userID uuid.UUID, from time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, b := range m.bookings {
		if b.IsActive() && b.UserID == userID && !b.Date.Before(from) {
			n++
		}
	}
	return n, nil
}

func (m *memLedger) Confirm(_ context.Context, id uuid.UUID, paymentRef string, amount float64, eventID string, now time.Time) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if m.events[eventID] {
		out := *b
		return &out, nil
	}

	if err := b.MarkConfirmed(now); err != nil {
		return nil, err
	}
	b.PaymentRef = &paymentRef
	m.payments[id] = &domain.Payment{
		Ref:       paymentRef,
		BookingID: id,
		Amount:    amount,
		Status:    domain.PaymentCompleted,
		CreatedAt: now,
	}
	m.events[eventID] = true

	out := *b
	return &out, nil
}

func (m *memLedger) Cancel(_ context.Context, id uuid.UUID, reason string, now time.Time, check domain.TransitionCheck) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if check != nil {
		if err := check(b); err != nil {
			return nil, err
		}
	}
	if err := b.MarkCancelled(reason, now); err != nil {
		return nil, err
	}

	if p, ok := m.payments[id]; ok && p.Status == domain.PaymentCompleted {
		p.Status = domain.PaymentRefunded
		refund := p.Amount
		p.RefundAmount = &refund
	}

	out := *b
	return &out, nil
}

func (m *memLedger) Complete(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if err := b.MarkCompleted(); err != nil {
		return nil, err
	}
	out := *b
	return &out, nil
}

func (m *memLedger) StalePending(_ context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stale []*domain.Booking
	for _, b := range m.bookings {
		if b.Status == domain.BookingPending && b.CreatedAt.Before(cutoff) {
			stale = append(stale, b)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].CreatedAt.Before(stale[j].CreatedAt) })
	if len(stale) > limit {
		stale = stale[:limit]
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, b := range stale {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (m *memLedger) payment(id uuid.UUID) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil
	}
	out := *p
	return &out
}
