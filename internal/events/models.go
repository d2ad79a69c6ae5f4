package events

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

type Event struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string      `json:"name" gorm:"not null;size:255"`
	Description   string      `json:"description" gorm:"type:text"`
	Venue         string      `json:"venue" gorm:"not null;size:255"`
	DateTime      time.Time   `json:"date_time" gorm:"not null"`
	TotalCapacity int         `json:"total_capacity" gorm:"not null;check:total_capacity > 0"`
	SoldCount     int         `json:"sold_count" gorm:"default:0;check:sold_count >= 0"`
	Status        EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	// Ticket tiers priced per event; bookings copy tier name and unit
	// price at checkout time.
	Tiers []TicketTier `json:"tiers,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TicketTier struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Price     float64   `json:"price" gorm:"not null;check:price >= 0"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

func (TicketTier) TableName() string {
	return "ticket_tiers"
}

type EventResponse struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Venue            string       `json:"venue"`
	DateTime         time.Time    `json:"date_time"`
	TotalCapacity    int          `json:"total_capacity"`
	SoldCount        int          `json:"sold_count"`
	AvailableTickets int          `json:"available_tickets"`
	Status           EventStatus  `json:"status"`
	Tiers            []TicketTier `json:"tiers"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type CreateEventRequest struct {
	Name          string              `json:"name" binding:"required,min=3,max=255"`
	Description   string              `json:"description" binding:"max=2000"`
	Venue         string              `json:"venue" binding:"required,min=3,max=255"`
	DateTime      time.Time           `json:"date_time" binding:"required"`
	TotalCapacity int                 `json:"total_capacity" binding:"required,min=1,max=100000"`
	Tiers         []CreateTierRequest `json:"tiers" binding:"required,min=1,dive"`
}

type CreateTierRequest struct {
	Name  string  `json:"name" binding:"required,min=1,max=100"`
	Price float64 `json:"price" binding:"min=0"`
}

// ToResponse converts an Event to its API representation
func (e *Event) ToResponse() EventResponse {
	available := e.TotalCapacity - e.SoldCount
	if available < 0 {
		available = 0
	}

	return EventResponse{
		ID:               e.ID.String(),
		Name:             e.Name,
		Description:      e.Description,
		Venue:            e.Venue,
		DateTime:         e.DateTime,
		TotalCapacity:    e.TotalCapacity,
		SoldCount:        e.SoldCount,
		AvailableTickets: available,
		Status:           e.Status,
		Tiers:            e.Tiers,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
