package bookings

import (
	"context"
	"fmt"

	"ticketly/internal/events"
	"ticketly/internal/tickets"

	"github.com/google/uuid"
)

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, callerID uuid.UUID, callerRole string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingResponse, int64, error)
}

type service struct {
	repo       Repository
	eventRepo  events.Repository
	ticketRepo tickets.Repository
}

func NewService(repo Repository, eventRepo events.Repository, ticketRepo tickets.Repository) Service {
	return &service{
		repo:       repo,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
	}
}

// CreateBooking runs checkout: resolves tier prices server-side, computes
// the total, creates the booking in payment_pending and issues valid
// tickets for every requested seat. Payment happens afterwards through
// the payments service.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event.Status != events.StatusPublished {
		return nil, fmt.Errorf("event is not available for booking")
	}

	tiersByID := make(map[uuid.UUID]events.TicketTier, len(event.Tiers))
	for _, tier := range event.Tiers {
		tiersByID[tier.ID] = tier
	}

	var items []BookingItem
	var tix []tickets.Ticket
	var totalAmount float64
	totalTickets := 0

	for _, itemReq := range req.Items {
		tierID, err := uuid.Parse(itemReq.TierID)
		if err != nil {
			return nil, fmt.Errorf("invalid tier ID: %w", err)
		}
		tier, ok := tiersByID[tierID]
		if !ok {
			return nil, fmt.Errorf("tier %s does not belong to event %s", tierID, eventID)
		}

		items = append(items, BookingItem{
			TierID:    tier.ID,
			TierName:  tier.Name,
			Quantity:  itemReq.Quantity,
			UnitPrice: tier.Price,
		})
		totalAmount += tier.Price * float64(itemReq.Quantity)
		totalTickets += itemReq.Quantity

		for i := 0; i < itemReq.Quantity; i++ {
			tix = append(tix, tickets.Ticket{
				EventID:      eventID,
				TierName:     tier.Name,
				QRData:       fmt.Sprintf("TKT-%s", uuid.New().String()),
				Status:       tickets.StatusValid,
				AttendeeName: req.AttendeeName,
			})
		}
	}

	if totalTickets > event.TotalCapacity-event.SoldCount {
		return nil, fmt.Errorf("insufficient capacity: only %d tickets available, requested %d",
			event.TotalCapacity-event.SoldCount, totalTickets)
	}

	booking := &Booking{
		UserID:      userID,
		EventID:     eventID,
		FinalAmount: totalAmount,
		TotalAmount: totalAmount,
		TicketCount: totalTickets,
		Status:      StatusPaymentPending,
		Items:       items,
	}

	if err := s.repo.CreateWithTickets(ctx, booking, tix); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	resp := booking.ToResponse(tix)
	return &resp, nil
}

// GetBooking retrieves a booking; non-elevated callers can only see their own
func (s *service) GetBooking(ctx context.Context, bookingID, callerID uuid.UUID, callerRole string) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if callerRole != "ADMIN" && booking.UserID != callerID {
		return nil, fmt.Errorf("unauthorized: booking does not belong to user")
	}

	tix, err := s.ticketRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	resp := booking.ToResponse(tix)
	return &resp, nil
}

// GetUserBookings retrieves bookings for a specific user
func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]BookingResponse, int64, error) {
	list, total, err := s.repo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user bookings: %w", err)
	}

	responses := make([]BookingResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse(nil))
	}
	return responses, total, nil
}
