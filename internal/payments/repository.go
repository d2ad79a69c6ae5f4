package payments

import (
	"context"
	"errors"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/tickets"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStaleBookingStatus is returned when a status-guarded update matched
// no row: the booking was not in the status the transition requires. A
// concurrent duplicate call loses here instead of double-applying.
var ErrStaleBookingStatus = errors.New("booking is not in the required status")

// RefundApplication carries everything the refund batch writes
type RefundApplication struct {
	BookingID     uuid.UUID
	EventID       uuid.UUID // uuid.Nil when the booking has no event reference
	TransactionID uuid.UUID
	RefundID      string
	RefundReason  string
	RefundAmount  float64
	TicketCount   int
}

// Repository performs the ledger writes of the payment lifecycle
type Repository interface {
	// ConfirmBooking atomically flips the booking from payment_pending to
	// confirmed and creates the transaction record. The flip is guarded
	// on the current status; a loser gets ErrStaleBookingStatus and no
	// transaction row.
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, signature string, txn *Transaction) error

	// FindSuccessTransaction locates the booking's success transaction,
	// checking the canonical schema first and the legacy one second.
	FindSuccessTransaction(ctx context.Context, bookingID uuid.UUID) (*Transaction, error)

	// ApplyRefund atomically moves the booking to refunded, stamps both
	// transaction status fields, restores event capacity and cancels the
	// booking's tickets.
	ApplyRefund(ctx context.Context, app RefundApplication) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, signature string, txn *Transaction) error {
	now := time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&bookings.Booking{}).
			Where("id = ? AND status = ?", bookingID, bookings.StatusPaymentPending).
			Updates(map[string]interface{}{
				"status":             bookings.StatusConfirmed,
				"razorpay_signature": signature,
				"paid_at":            now,
				"verified_at":        now,
				"updated_at":         now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleBookingStatus
		}

		return tx.Create(txn).Error
	})
}

func (r *repository) FindSuccessTransaction(ctx context.Context, bookingID uuid.UUID) (*Transaction, error) {
	var txn Transaction

	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND payment_status = ?", bookingID, PaymentStatusSuccess).
		First(&txn).Error
	if err == nil {
		return &txn, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Historical rows may only carry the legacy status column
	err = r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, LegacyStatusCompleted).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) ApplyRefund(ctx context.Context, app RefundApplication) error {
	now := time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&bookings.Booking{}).
			Where("id = ? AND status = ?", app.BookingID, bookings.StatusConfirmed).
			Updates(map[string]interface{}{
				"status":      bookings.StatusRefunded,
				"refunded_at": now,
				"updated_at":  now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleBookingStatus
		}

		// Both status columns are stamped so legacy readers see the
		// refund too
		err := tx.Model(&Transaction{}).
			Where("id = ?", app.TransactionID).
			Updates(map[string]interface{}{
				"payment_status": PaymentStatusRefunded,
				"status":         LegacyStatusRefunded,
				"refund_id":      app.RefundID,
				"refund_amount":  app.RefundAmount,
				"refund_reason":  app.RefundReason,
				"refunded_at":    now,
				"updated_at":     now,
			}).Error
		if err != nil {
			return err
		}

		if app.EventID != uuid.Nil {
			// Clamped at zero: the confirm-side increment is best-effort,
			// so a lost increment must not trip the sold_count check and
			// roll back the refund batch
			err = tx.Model(&events.Event{}).
				Where("id = ?", app.EventID).
				UpdateColumn("sold_count", gorm.Expr("GREATEST(sold_count - ?, 0)", app.TicketCount)).Error
			if err != nil {
				return err
			}
		}

		return tickets.CancelByBookingID(tx, app.BookingID)
	})
}
