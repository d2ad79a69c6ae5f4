package notifications

import (
	"encoding/json"
	"time"
)

// PaymentEventType identifies a payment lifecycle transition
type PaymentEventType string

const (
	EventPaymentConfirmed PaymentEventType = "payment.confirmed"
	EventPaymentFailed    PaymentEventType = "payment.failed"
	EventPaymentRefunded  PaymentEventType = "payment.refunded"
)

// PaymentEvent is published to Kafka after a payment state change has
// been committed. Downstream consumers (email, analytics) react to it;
// the payment flow never depends on delivery.
type PaymentEvent struct {
	Type          PaymentEventType `json:"type"`
	BookingID     string           `json:"booking_id"`
	TransactionID string           `json:"transaction_id,omitempty"`
	EventID       string           `json:"event_id,omitempty"`
	UserID        string           `json:"user_id,omitempty"`
	Amount        float64          `json:"amount,omitempty"`
	RefundID      string           `json:"refund_id,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// ToJSON serializes the event for the wire
func (e *PaymentEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events of one booking to the same partition so
// consumers observe them in order.
func (e *PaymentEvent) PartitionKey() string {
	return e.BookingID
}
