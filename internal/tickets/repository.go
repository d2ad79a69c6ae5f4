package tickets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, tix []Ticket) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	MarkUsed(ctx context.Context, qrData string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, tix []Ticket) error {
	if len(tix) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tix).Error
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	var tix []Ticket
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Find(&tix).Error
	return tix, err
}

// MarkUsed consumes a valid ticket at the gate. A ticket that is already
// used or cancelled is not consumable.
func (r *repository) MarkUsed(ctx context.Context, qrData string) error {
	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("qr_data = ? AND status = ?", qrData, StatusValid).
		Updates(map[string]interface{}{
			"status":     StatusUsed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelByBookingID flips every ticket of a booking to cancelled inside
// the caller's transaction.
func CancelByBookingID(tx *gorm.DB, bookingID uuid.UUID) error {
	return tx.Model(&Ticket{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{
			"status":     StatusCancelled,
			"updated_at": time.Now(),
		}).Error
}
