package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Service interface defines the contract for event business logic
type Service interface {
	CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	ListEvents(ctx context.Context, limit, offset int) ([]EventResponse, int64, error)
	ReconcileCapacity(ctx context.Context, id uuid.UUID) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Name:          req.Name,
		Description:   req.Description,
		Venue:         req.Venue,
		DateTime:      req.DateTime,
		TotalCapacity: req.TotalCapacity,
		Status:        StatusPublished,
		CreatedBy:     createdBy,
	}
	for _, tier := range req.Tiers {
		event.Tiers = append(event.Tiers, TicketTier{
			Name:  tier.Name,
			Price: tier.Price,
		})
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) ListEvents(ctx context.Context, limit, offset int) ([]EventResponse, int64, error) {
	evts, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EventResponse, 0, len(evts))
	for i := range evts {
		responses = append(responses, evts[i].ToResponse())
	}
	return responses, total, nil
}

// ReconcileCapacity recomputes sold_count from confirmed bookings. The
// payment flow keeps the counter best-effort, so drift is possible and
// this is the operational correction path.
func (s *service) ReconcileCapacity(ctx context.Context, id uuid.UUID) (int, error) {
	return s.repo.ReconcileSoldCount(ctx, id)
}
