package bookings

import (
	"context"
	"time"

	"ticketly/internal/tickets"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithTickets persists the booking, its line items and the
	// issued tickets in one transaction.
	CreateWithTickets(ctx context.Context, booking *Booking, tix []tickets.Ticket) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error)

	// SetOrderID stamps the gateway order id and refreshes updated_at.
	SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error

	// MarkPaymentFailed records a failed verification attempt. Guarded on
	// payment_pending: a stale mismatch must not move a booking that has
	// already progressed backwards.
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithTickets(ctx context.Context, booking *Booking, tix []tickets.Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		for i := range tix {
			tix[i].BookingID = booking.ID
		}
		if len(tix) > 0 {
			if err := tx.Create(&tix).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Booking, int64, error) {
	var list []Booking
	var totalCount int64

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	baseQuery := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error

	return list, totalCount, err
}

func (r *repository) SetOrderID(ctx context.Context, id uuid.UUID, orderID string) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"razorpay_order_id": orderID,
			"status":            StatusPaymentPending,
			"updated_at":        time.Now(),
		}).Error
}

func (r *repository) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, StatusPaymentPending).
		Updates(map[string]interface{}{
			"status":     StatusPaymentFailed,
			"updated_at": time.Now(),
		}).Error
}
