package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is the engine's view of an external payment attached to a
// booking. The gateway protocol itself lives elsewhere; the engine only
// records the verified amount and flips completed payments to refunded
// on cancellation.
type Payment struct {
	Ref          string // opaque id assigned by the payment collaborator
	BookingID    uuid.UUID
	Amount       float64
	Status       PaymentStatus
	RefundAmount *float64
	CreatedAt    time.Time
}
