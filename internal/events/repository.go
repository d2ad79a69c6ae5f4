package events

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, limit, offset int) ([]Event, int64, error)

	// AdjustSoldCount applies a server-side atomic delta to the sold
	// counter. Never read-then-written, so concurrent adjustments for
	// different bookings of the same event cannot lose updates.
	AdjustSoldCount(ctx context.Context, id uuid.UUID, delta int) error

	// ReconcileSoldCount recomputes the counter from confirmed bookings
	// and returns the corrected value.
	ReconcileSoldCount(ctx context.Context, id uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("Tiers").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Event, int64, error) {
	var evts []Event
	var totalCount int64

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	baseQuery := r.db.WithContext(ctx).Model(&Event{}).Where("status = ?", StatusPublished)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := baseQuery.
		Preload("Tiers").
		Order("date_time ASC").
		Offset(offset).
		Limit(limit).
		Find(&evts).Error

	return evts, totalCount, err
}

func (r *repository) AdjustSoldCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		UpdateColumn("sold_count", gorm.Expr("sold_count + ?", delta)).Error
}

func (r *repository) ReconcileSoldCount(ctx context.Context, id uuid.UUID) (int, error) {
	var recomputed int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Raw(
			`SELECT COALESCE(SUM(bi.quantity), 0)
			 FROM bookings b
			 JOIN booking_items bi ON bi.booking_id = b.id
			 WHERE b.event_id = ? AND b.status = 'confirmed'`, id,
		).Scan(&recomputed).Error
		if err != nil {
			return err
		}

		return tx.Model(&Event{}).
			Where("id = ?", id).
			UpdateColumn("sold_count", recomputed).Error
	})

	return recomputed, err
}
