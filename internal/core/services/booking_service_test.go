package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/ports/mocks"
	"github.com/courtside/booking-engine/internal/core/services"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// testNow is a Tuesday; bookings in these tests target the next day.
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

type ledgerFixture struct {
	facilities *mocks.FacilityRepository
	bookings   *mocks.BookingRepository
	events     *mocks.EventPublisher
	svc        *services.BookingService
	facility   *domain.Facility
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	f := &ledgerFixture{
		facilities: mocks.NewFacilityRepository(t),
		bookings:   mocks.NewBookingRepository(t),
		events:     mocks.NewEventPublisher(t),
	}

	codes := domain.NewCodeGenerator(newSeededSource(), 8)
	f.svc = services.NewBookingService(
		f.facilities, f.bookings,
		services.NewPricingService(0.10),
		f.events,
		fixedClock{testNow},
		codes,
		services.DefaultPolicy(),
	)

	f.facility = &domain.Facility{
		ID:             uuid.New(),
		Name:           "Center Court",
		PricePerHour:   1500,
		CommissionRate: 0.10,
		OperatingHours: weekdaysOpen("06:00", "22:00"),
		IsBookable:     true,
	}
	return f
}

func (f *ledgerFixture) request(date, start, end string) services.CreateBookingRequest {
	return services.CreateBookingRequest{
		FacilityID: f.facility.ID.String(),
		UserID:     uuid.New().String(),
		Date:       date,
		Start:      start,
		End:        end,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)
	f.bookings.On("CountActiveForUser", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	f.bookings.On("ActiveByFacilityDate", ctx, f.facility.ID, mock.AnythingOfType("time.Time")).Return(nil, nil)
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking"), mock.AnythingOfType("domain.UserQuota"), mock.AnythingOfType("func() string"), 20).
		Return(func(_ context.Context, b *domain.Booking, _ domain.UserQuota, nextCode func() string, _ int) (*domain.Booking, error) {
			persisted := *b
			persisted.Code = nextCode()
			return &persisted, nil
		})
	f.events.On("PublishJSON", ctx, services.RKBookingCreated, mock.Anything).Return(nil)

	resp, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, 1500.00, resp.TotalAmount)
		assert.Equal(t, 150.00, resp.CommissionAmount)
		assert.Equal(t, "pending", resp.Status)
		assert.Len(t, resp.Code, 8)
	}
}

func TestCreateBooking_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)
	f.bookings.On("CountActiveForUser", ctx, mock.Anything, mock.Anything).Return(int64(0), nil)
	f.bookings.On("ActiveByFacilityDate", ctx, f.facility.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, 20).
		Return(func(_ context.Context, b *domain.Booking, _ domain.UserQuota, _ func() string, _ int) (*domain.Booking, error) {
			persisted := *b
			persisted.Code = "TESTCODE"
			return &persisted, nil
		})
	f.events.On("PublishJSON", ctx, services.RKBookingCreated, mock.Anything).Return(assert.AnError)

	resp, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))

	assert.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestCreateBooking_FacilityNotBookable(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(nil, domain.ErrFacilityNotBookable)

	resp, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))

	assert.ErrorIs(t, err, domain.ErrFacilityNotBookable)
	assert.Nil(t, resp)
}

func TestCreateBooking_InvalidDuration(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	// 30 minutes, below the 60 minute floor
	_, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "18:30"))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	// end before start
	_, err = f.svc.Create(ctx, f.request("2026-09-02", "19:00", "18:00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestCreateBooking_MaxDurationEnforcedWhenConfigured(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	policy := services.DefaultPolicy()
	policy.MaxBookingMinutes = 120
	svc := services.NewBookingService(
		f.facilities, f.bookings, services.NewPricingService(0.10),
		nil, fixedClock{testNow}, domain.NewCodeGenerator(newSeededSource(), 8), policy,
	)

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	_, err := svc.Create(ctx, f.request("2026-09-02", "18:00", "21:00"))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestCreateBooking_PastDate(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	// the interval is also outside operating hours; the date check wins
	_, err := f.svc.Create(ctx, f.request("2026-08-31", "05:00", "06:00"))
	assert.ErrorIs(t, err, domain.ErrPastDate)
}

func TestCreateBooking_AdvanceWindowExceeded(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	// 31 days out with a 30 day window
	_, err := f.svc.Create(ctx, f.request("2026-10-02", "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrAdvanceWindowExceeded)
}

func TestCreateBooking_OutsideOperatingHours(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	// hours are 06:00-22:00
	_, err := f.svc.Create(ctx, f.request("2026-09-02", "05:00", "06:00"))
	assert.ErrorIs(t, err, domain.ErrOutsideOperatingHours)

	_, err = f.svc.Create(ctx, f.request("2026-09-02", "21:30", "22:30"))
	assert.ErrorIs(t, err, domain.ErrOutsideOperatingHours)
}

func TestCreateBooking_ClosedWeekday(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facility.OperatingHours = domain.OperatingHours{
		"monday": {Open: "06:00", Close: "22:00"},
	}
	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)

	// 2026-09-02 is a Wednesday
	_, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrOutsideOperatingHours)
}

func TestCreateBooking_UserBookingLimit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)
	f.bookings.On("CountActiveForUser", ctx, mock.Anything, mock.Anything).Return(int64(3), nil)

	_, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrUserBookingLimit)
}

func TestCreateBooking_AdvisorySlotConflict(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)
	f.bookings.On("CountActiveForUser", ctx, mock.Anything, mock.Anything).Return(int64(0), nil)
	f.bookings.On("ActiveByFacilityDate", ctx, f.facility.ID, mock.Anything).Return([]domain.Booking{
		{StartMinute: 18*60 + 30, EndMinute: 19*60 + 30, Status: domain.BookingPending},
	}, nil)

	_, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestCreateBooking_CommitTimeSlotConflict(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	f.facilities.On("GetBookable", ctx, f.facility.ID).Return(f.facility, nil)
	f.bookings.On("CountActiveForUser", ctx, mock.Anything, mock.Anything).Return(int64(0), nil)
	f.bookings.On("ActiveByFacilityDate", ctx, f.facility.ID, mock.Anything).Return(nil, nil)
	f.bookings.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, 20).Return(nil, domain.ErrSlotConflict)

	_, err := f.svc.Create(ctx, f.request("2026-09-02", "18:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}
