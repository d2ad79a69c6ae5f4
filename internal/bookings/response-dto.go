package bookings

import (
	"time"

	"ticketly/internal/tickets"
)

// BookingResponse is the API representation of a booking
type BookingResponse struct {
	ID           string            `json:"id"`
	EventID      string            `json:"event_id"`
	Status       string            `json:"status"`
	FinalAmount  float64           `json:"final_amount"`
	TotalTickets int               `json:"total_tickets"`
	Items        []BookingItem     `json:"items"`
	Tickets      []tickets.Ticket  `json:"tickets,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ToResponse converts a Booking to its API representation
func (b *Booking) ToResponse(tix []tickets.Ticket) BookingResponse {
	return BookingResponse{
		ID:           b.ID.String(),
		EventID:      b.EventID.String(),
		Status:       b.Status.String(),
		FinalAmount:  b.ChargeAmount(),
		TotalTickets: b.TotalTickets(),
		Items:        b.Items,
		Tickets:      tix,
		CreatedAt:    b.CreatedAt,
	}
}
