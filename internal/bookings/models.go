package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking represents one attendee's attempt to purchase tickets for an
// event. Never hard-deleted; the payment services move it along its
// status lifecycle.
type Booking struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`

	// FinalAmount is the authoritative charge total. TotalAmount is the
	// legacy column name still present in historical rows; reads fall
	// back to it, new rows write both at creation.
	FinalAmount float64 `gorm:"not null" json:"final_amount"`
	TotalAmount float64 `json:"total_amount"`

	// TicketCount is the legacy scalar quantity used before per-tier
	// line items existed. Read only when Items is empty.
	TicketCount int `json:"ticket_count"`

	Status Status `gorm:"type:varchar(20);default:'payment_pending';index" json:"status"`

	RazorpayOrderID   string `gorm:"size:64;index" json:"razorpay_order_id,omitempty"`
	RazorpaySignature string `gorm:"size:128" json:"razorpay_signature,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`

	Items []BookingItem `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"items,omitempty"`
}

// BookingItem is one ticket-tier line of a booking
type BookingItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	TierID    uuid.UUID `gorm:"type:uuid;not null" json:"tier_id"`
	TierName  string    `gorm:"size:100;not null" json:"tier_name"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (BookingItem) TableName() string {
	return "booking_items"
}

// ChargeAmount returns the authoritative amount to charge: final_amount,
// falling back to the legacy total_amount, falling back to zero.
func (b *Booking) ChargeAmount() float64 {
	if b.FinalAmount > 0 {
		return b.FinalAmount
	}
	if b.TotalAmount > 0 {
		return b.TotalAmount
	}
	return 0
}

// TotalTickets sums the line-item quantities, falling back to the legacy
// scalar ticket_count when no line items exist.
func (b *Booking) TotalTickets() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	if total == 0 {
		total = b.TicketCount
	}
	return total
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}
