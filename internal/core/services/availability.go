package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/ports"
)

// SlotsView is the advisory availability picture for one facility and
// date. The authoritative conflict check still runs inside the create
// transaction.
type SlotsView struct {
	Date           string            `json:"date"`
	DayOfWeek      string            `json:"day_of_week"`
	OperatingHours *domain.DayWindow `json:"operating_hours"`
	Slots          []domain.Slot     `json:"slots"`
}

// AvailabilityService tiles a facility's operating hours into
// fixed-size slots and flags the ones blocked by active bookings.
type AvailabilityService struct {
	facilities ports.FacilityRepository
	bookings   ports.BookingRepository
	policy     Policy
}

func NewAvailabilityService(facilities ports.FacilityRepository, bookings ports.BookingRepository, policy Policy) *AvailabilityService {
	return &AvailabilityService{facilities: facilities, bookings: bookings, policy: policy}
}

// Slots recomputes the slot list on every call. A weekday with no
// configured hours yields an empty list (closed).
func (s *AvailabilityService) Slots(ctx context.Context, facilityID uuid.UUID, date time.Time) (*SlotsView, error) {
	facility, err := s.facilities.GetBookable(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	day := date.In(s.policy.Location).Weekday()
	view := &SlotsView{
		Date:      date.In(s.policy.Location).Format("2006-01-02"),
		DayOfWeek: strings.ToLower(day.String()),
		Slots:     []domain.Slot{},
	}

	window, open := facility.OperatingHours.WindowFor(day)
	if !open {
		return view, nil
	}
	view.OperatingHours = &window

	openMin, err := domain.ParseClock(window.Open)
	if err != nil {
		return nil, domain.Internal("parse operating hours", err)
	}
	closeMin, err := domain.ParseClock(window.Close)
	if err != nil {
		return nil, domain.Internal("parse operating hours", err)
	}

	active, err := s.bookings.ActiveByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}

	step := s.policy.SlotGranularityMinutes
	for start := openMin; start+step <= closeMin; start += step {
		end := start + step
		slot := domain.Slot{
			Start:     domain.FormatClock(start),
			End:       domain.FormatClock(end),
			Available: true,
		}
		for i := range active {
			if domain.Overlaps(start, end, active[i].StartMinute, active[i].EndMinute) {
				slot.Available = false
				break
			}
		}
		view.Slots = append(view.Slots, slot)
	}

	return view, nil
}
