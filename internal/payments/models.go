package payments

import (
	"time"

	"github.com/google/uuid"
)

// Transaction payment status values. PaymentStatus is the canonical
// column; Status carries the legacy vocabulary still present in
// historical rows and is written alongside it at this compatibility
// boundary only.
const (
	PaymentStatusSuccess  = "success"
	PaymentStatusRefunded = "refunded"

	LegacyStatusCompleted = "completed"
	LegacyStatusRefunded  = "refunded"
)

// Transaction is the durable payment record, one per successful payment
// attempt. Created atomically with the booking's confirmation, mutated
// (never deleted) on refund.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	// Denormalized event metadata for display
	EventID    uuid.UUID  `gorm:"type:uuid;index" json:"event_id"`
	EventTitle string     `gorm:"size:255" json:"event_title"`
	EventDate  *time.Time `json:"event_date,omitempty"`

	TicketDetails []TicketDetail `gorm:"serializer:json;type:jsonb" json:"ticket_details"`

	AmountPaid      float64 `gorm:"not null" json:"amount_paid"`
	DiscountApplied float64 `json:"discount_applied"`
	ServiceFee      float64 `json:"service_fee"`
	TaxAmount       float64 `json:"tax_amount"`
	PaymentMethod   string  `gorm:"size:50" json:"payment_method"`

	// RazorpayPaymentID is canonical; GatewayTransactionID is the legacy
	// column name. Reads prefer the canonical field and fall back.
	RazorpayPaymentID    string `gorm:"size:64;index" json:"razorpay_payment_id"`
	GatewayTransactionID string `gorm:"size:64" json:"gateway_transaction_id,omitempty"`
	RazorpayOrderID      string `gorm:"size:64" json:"razorpay_order_id"`

	PaymentStatus string `gorm:"size:20;index" json:"payment_status"`
	Status        string `gorm:"size:20" json:"status"` // legacy

	RefundID     string  `gorm:"size:64" json:"refund_id,omitempty"`
	RefundAmount float64 `json:"refund_amount,omitempty"`
	RefundReason string  `gorm:"size:500" json:"refund_reason,omitempty"`

	VerificationMethod string `gorm:"size:32" json:"verification_method"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`
}

// TicketDetail is a denormalized booking line item with its computed
// subtotal
type TicketDetail struct {
	TierID    string  `json:"tier_id"`
	TierName  string  `json:"tier_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// PaymentID returns the gateway payment id, preferring the canonical
// field and falling back to the legacy column.
func (t *Transaction) PaymentID() string {
	if t.RazorpayPaymentID != "" {
		return t.RazorpayPaymentID
	}
	return t.GatewayTransactionID
}
