package tickets

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	StatusValid     TicketStatus = "valid"
	StatusUsed      TicketStatus = "used"
	StatusCancelled TicketStatus = "cancelled"
)

// Ticket is an issued, scannable admission credential. Tickets are
// created at booking checkout, consumed by the gate-scanning flow and
// cancelled in bulk when a booking is refunded.
type Ticket struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID    uuid.UUID    `json:"booking_id" gorm:"type:uuid;index;not null"`
	EventID      uuid.UUID    `json:"event_id" gorm:"type:uuid;index;not null"`
	TierName     string       `json:"tier_name" gorm:"size:100"`
	QRData       string       `json:"qr_data" gorm:"uniqueIndex;not null"`
	Status       TicketStatus `json:"status" gorm:"type:varchar(20);default:'valid'"`
	AttendeeName string       `json:"attendee_name" gorm:"size:200"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsValid() bool {
	return t.Status == StatusValid
}
