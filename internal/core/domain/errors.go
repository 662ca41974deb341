package domain

import (
	"fmt"
)

// Kind partitions errors by how the caller should react: fix the
// input, pick another slot, or try again later.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindPolicy     Kind = "policy"
	KindState      Kind = "state"
	KindInternal   Kind = "internal"
)

// Error is a tagged engine error: a stable machine-readable code plus a
// human-readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches by code so wrapped copies still compare equal to the
// sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Internal wraps a storage or infrastructure failure.
func Internal(op string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL",
		Message: fmt.Sprintf("%s: %v", op, err),
		cause:   err,
	}
}

var (
	ErrFacilityNotBookable = &Error{Kind: KindNotFound, Code: "FACILITY_NOT_BOOKABLE", Message: "facility not found or not bookable"}
	ErrBookingNotFound     = &Error{Kind: KindNotFound, Code: "BOOKING_NOT_FOUND", Message: "booking not found"}

	ErrInvalidInput     = &Error{Kind: KindValidation, Code: "INVALID_INPUT", Message: "invalid input parameters"}
	ErrInvalidDuration  = &Error{Kind: KindValidation, Code: "INVALID_DURATION", Message: "booking duration outside allowed bounds"}
	ErrReasonRequired   = &Error{Kind: KindValidation, Code: "REASON_REQUIRED", Message: "cancellation reason is required"}

	ErrPastDate              = &Error{Kind: KindPolicy, Code: "PAST_DATE", Message: "booking date is in the past"}
	ErrAdvanceWindowExceeded = &Error{Kind: KindPolicy, Code: "ADVANCE_WINDOW_EXCEEDED", Message: "booking date is beyond the advance window"}
	ErrOutsideOperatingHours = &Error{Kind: KindPolicy, Code: "OUTSIDE_OPERATING_HOURS", Message: "interval is outside the facility operating hours"}
	ErrUserBookingLimit      = &Error{Kind: KindPolicy, Code: "USER_BOOKING_LIMIT", Message: "user has reached the active booking limit"}
	ErrCancellationNotice    = &Error{Kind: KindPolicy, Code: "CANCELLATION_NOTICE", Message: "booking starts too soon to cancel"}

	ErrSlotConflict         = &Error{Kind: KindConflict, Code: "SLOT_CONFLICT", Message: "time slot already booked"}
	ErrCodeGenerationFailed = &Error{Kind: KindConflict, Code: "CODE_GENERATION_FAILED", Message: "could not generate a unique booking code"}

	ErrInvalidTransition = &Error{Kind: KindState, Code: "INVALID_TRANSITION", Message: "illegal booking status transition"}
)
