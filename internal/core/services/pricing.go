package services

import (
	"math"

	"github.com/courtside/booking-engine/internal/core/domain"
)

// Quote is the price breakdown for one booking.
type Quote struct {
	TotalAmount      float64
	CommissionAmount float64
}

// PricingService derives the booking total and the platform commission
// from the facility's hourly rate.
type PricingService struct {
	defaultRate float64
}

func NewPricingService(defaultCommissionRate float64) *PricingService {
	return &PricingService{defaultRate: defaultCommissionRate}
}

// PriceBooking computes total = pricePerHour * hours and commission =
// total * rate, both rounded half-up to 2 decimals. The facility rate
// wins when set, else the platform default applies.
func (s *PricingService) PriceBooking(f *domain.Facility, durationMinutes int) Quote {
	rate := f.CommissionRate
	if rate <= 0 {
		rate = s.defaultRate
	}

	total := round2(f.PricePerHour * float64(durationMinutes) / 60)
	return Quote{
		TotalAmount:      total,
		CommissionAmount: round2(total * rate),
	}
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
