package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/services"
)

// Routing keys the payment collaborator publishes on.
const (
	RKPaymentVerified = "payment.verified"
	RKPaymentFailed   = "payment.failed"
)

// PaymentVerified reports a verified payment for a pending booking.
type PaymentVerified struct {
	EventID   string  `json:"event_id"`
	BookingID string  `json:"booking_id"`
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// PaymentFailed reports a failed payment attempt. The booking stays
// pending; the expiry worker releases the slot if no later attempt
// succeeds.
type PaymentFailed struct {
	EventID        string `json:"event_id"`
	BookingID      string `json:"booking_id"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

// PaymentConsumer feeds payment events into the booking state machine.
type PaymentConsumer struct {
	lifecycle *services.LifecycleService
	cons      *Consumer
}

func NewPaymentConsumer(lifecycle *services.LifecycleService, cons *Consumer) *PaymentConsumer {
	return &PaymentConsumer{lifecycle: lifecycle, cons: cons}
}

func (pc *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := pc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			switch d.RoutingKey {
			case RKPaymentVerified:
				pc.handleVerified(ctx, d.Body, d)
			case RKPaymentFailed:
				var evt PaymentFailed
				if err := json.Unmarshal(d.Body, &evt); err == nil {
					log.Printf("payment failed for booking %s (%s); booking stays pending", evt.BookingID, evt.FailureCode)
				}
				_ = d.Ack(false)
			default:
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}

func (pc *PaymentConsumer) handleVerified(ctx context.Context, body []byte, d acker) {
	var evt PaymentVerified
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Printf("payment consumer: unmarshal error: %v", err)
		_ = d.Nack(false, false)
		return
	}

	bookingID, err := uuid.Parse(evt.BookingID)
	if err != nil || evt.PaymentID == "" {
		log.Printf("payment consumer: invalid event payload")
		_ = d.Ack(false)
		return
	}
	eventID := evt.EventID
	if eventID == "" {
		eventID = evt.PaymentID
	}

	if _, err := pc.lifecycle.Confirm(ctx, bookingID, evt.PaymentID, evt.Amount, eventID); err != nil {
		log.Printf("payment consumer: confirm booking %s: %v", evt.BookingID, err)
		var e *domain.Error
		if errors.As(err, &e) && e.Kind != domain.KindInternal {
			// Unknown booking or illegal transition will not heal on
			// redelivery.
			_ = d.Ack(false)
			return
		}
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}
