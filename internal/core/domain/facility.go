package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DayWindow is a facility's open window for one weekday, HH:MM 24h,
// Open strictly before Close.
type DayWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OperatingHours maps lowercase weekday names ("monday") to open
// windows. A missing weekday means the facility is closed that day.
type OperatingHours map[string]DayWindow

// WindowFor resolves the window for a weekday.
func (oh OperatingHours) WindowFor(day time.Weekday) (DayWindow, bool) {
	w, ok := oh[strings.ToLower(day.String())]
	return w, ok
}

// Facility is owned by an external service and read-only to the engine.
type Facility struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	PricePerHour   float64        `json:"price_per_hour"`
	CommissionRate float64        `json:"commission_rate"` // fraction in (0,1]; 0 means platform default
	OperatingHours OperatingHours `json:"operating_hours"`
	IsBookable     bool           `json:"is_bookable"` // active AND verified
}
