package services

import "time"

// Policy carries the platform booking rules, loaded once at startup and
// injected; services never read settings storage per request.
type Policy struct {
	DefaultCommissionRate    float64
	MinBookingMinutes        int
	MaxBookingMinutes        int // 0 disables the cap
	MaxAdvanceDays           int
	CancellationNoticeHours  int
	SlotGranularityMinutes   int
	MaxActiveBookingsPerUser int
	MaxCodeAttempts          int
	PendingExpiry            time.Duration
	Location                 *time.Location
}

// DefaultPolicy returns the documented platform defaults in UTC.
func DefaultPolicy() Policy {
	return Policy{
		DefaultCommissionRate:    0.10,
		MinBookingMinutes:        60,
		MaxBookingMinutes:        0,
		MaxAdvanceDays:           30,
		CancellationNoticeHours:  24,
		SlotGranularityMinutes:   30,
		MaxActiveBookingsPerUser: 3,
		MaxCodeAttempts:          20,
		PendingExpiry:            time.Hour,
		Location:                 time.UTC,
	}
}

// Today truncates now to midnight in the platform timezone.
func (p Policy) Today(now time.Time) time.Time {
	d := now.In(p.Location)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, p.Location)
}
