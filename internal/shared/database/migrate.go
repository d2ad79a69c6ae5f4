package database

import (
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/payments"
	"ticketly/internal/tickets"
	"ticketly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&events.TicketTier{},
		&bookings.Booking{},
		&bookings.BookingItem{},
		&tickets.Ticket{},
		&payments.Transaction{},
	); err != nil {
		return err
	}

	// At most one success transaction per booking.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_booking_success
		 ON transactions (booking_id) WHERE payment_status = 'success'`,
	).Error
}
