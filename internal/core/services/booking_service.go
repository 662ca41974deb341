package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/ports"
)

// Routing keys for the fire-and-forget booking events.
const (
	RKBookingCreated   = "booking.created"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCancelled = "booking.cancelled"
)

type CreateBookingRequest struct {
	FacilityID     string `json:"facility_id"`
	UserID         string `json:"user_id"`
	Date           string `json:"date"` // YYYY-MM-DD in the platform timezone
	Start          string `json:"start"`
	End            string `json:"end"`
	SpecialRequest string `json:"special_request,omitempty"`
}

type CreateBookingResponse struct {
	BookingID        string  `json:"booking_id"`
	Code             string  `json:"code"`
	TotalAmount      float64 `json:"total_amount"`
	CommissionAmount float64 `json:"commission_amount"`
	Status           string  `json:"status"`
}

// BookingService is the booking ledger: it owns creation validation and
// delegates the conflict-check-and-insert to one atomic repository
// operation.
type BookingService struct {
	facilities ports.FacilityRepository
	bookings   ports.BookingRepository
	pricing    *PricingService
	events     ports.EventPublisher
	clock      ports.Clock
	codes      *domain.CodeGenerator
	policy     Policy
}

func NewBookingService(
	facilities ports.FacilityRepository,
	bookings ports.BookingRepository,
	pricing *PricingService,
	events ports.EventPublisher,
	clock ports.Clock,
	codes *domain.CodeGenerator,
	policy Policy,
) *BookingService {
	return &BookingService{
		facilities: facilities,
		bookings:   bookings,
		pricing:    pricing,
		events:     events,
		clock:      clock,
		codes:      codes,
		policy:     policy,
	}
}

// Create validates the request in a fixed order, failing fast on the
// first violation, then persists the booking in status pending. The
// advisory conflict check here is repeated authoritatively inside the
// repository transaction.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	facilityID, err := uuid.Parse(req.FacilityID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.policy.Location)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	facility, err := s.facilities.GetBookable(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	startMin, err := domain.ParseClock(req.Start)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	endMin, err := domain.ParseClock(req.End)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	duration := endMin - startMin
	if duration < s.policy.MinBookingMinutes {
		return nil, domain.ErrInvalidDuration
	}
	if s.policy.MaxBookingMinutes > 0 && duration > s.policy.MaxBookingMinutes {
		return nil, domain.ErrInvalidDuration
	}

	today := s.policy.Today(s.clock.Now())
	if date.Before(today) {
		return nil, domain.ErrPastDate
	}
	if date.After(today.AddDate(0, 0, s.policy.MaxAdvanceDays)) {
		return nil, domain.ErrAdvanceWindowExceeded
	}

	window, open := facility.OperatingHours.WindowFor(date.Weekday())
	if !open {
		return nil, domain.ErrOutsideOperatingHours
	}
	openMin, err := domain.ParseClock(window.Open)
	if err != nil {
		return nil, domain.Internal("parse operating hours", err)
	}
	closeMin, err := domain.ParseClock(window.Close)
	if err != nil {
		return nil, domain.Internal("parse operating hours", err)
	}
	if startMin < openMin || endMin > closeMin {
		return nil, domain.ErrOutsideOperatingHours
	}

	activeCount, err := s.bookings.CountActiveForUser(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if activeCount >= int64(s.policy.MaxActiveBookingsPerUser) {
		return nil, domain.ErrUserBookingLimit
	}

	existing, err := s.bookings.ActiveByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if domain.Overlaps(startMin, endMin, existing[i].StartMinute, existing[i].EndMinute) {
			return nil, domain.ErrSlotConflict
		}
	}

	quote := s.pricing.PriceBooking(facility, duration)

	booking := &domain.Booking{
		ID:               uuid.New(),
		FacilityID:       facilityID,
		UserID:           userID,
		Date:             date,
		StartMinute:      startMin,
		EndMinute:        endMin,
		DurationMinutes:  duration,
		TotalAmount:      quote.TotalAmount,
		CommissionAmount: quote.CommissionAmount,
		Status:           domain.BookingPending,
		CreatedAt:        s.clock.Now(),
	}
	if req.SpecialRequest != "" {
		booking.SpecialRequest = &req.SpecialRequest
	}

	quota := domain.UserQuota{From: today, MaxActive: s.policy.MaxActiveBookingsPerUser}
	persisted, err := s.bookings.Create(ctx, booking, quota, s.codes.Next, s.policy.MaxCodeAttempts)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, RKBookingCreated, map[string]any{
		"booking_id":  persisted.ID.String(),
		"user_id":     persisted.UserID.String(),
		"facility_id": persisted.FacilityID.String(),
		"date":        persisted.Date.Format("2006-01-02"),
		"start":       domain.FormatClock(persisted.StartMinute),
		"end":         domain.FormatClock(persisted.EndMinute),
	})

	return &CreateBookingResponse{
		BookingID:        persisted.ID.String(),
		Code:             persisted.Code,
		TotalAmount:      persisted.TotalAmount,
		CommissionAmount: persisted.CommissionAmount,
		Status:           string(persisted.Status),
	}, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int64, error) {
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	if f.Page < 0 {
		f.Page = 0
	}
	return s.bookings.List(ctx, f)
}

// publish is fire-and-forget: delivery failures are logged and never
// fail the originating operation.
func (s *BookingService) publish(ctx context.Context, key string, v any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, key, v); err != nil {
		log.Printf("publish %s: %v", key, err)
	}
}
