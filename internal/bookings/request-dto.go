package bookings

// BookingItemRequest selects a ticket tier and quantity at checkout.
// Prices are never taken from the client; the service resolves them
// from the event's tier list.
type BookingItemRequest struct {
	TierID   string `json:"tier_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=10"`
}

// CreateBookingRequest represents a checkout request
type CreateBookingRequest struct {
	EventID      string               `json:"event_id" binding:"required,uuid"`
	Items        []BookingItemRequest `json:"items" binding:"required,min=1,dive"`
	AttendeeName string               `json:"attendee_name" binding:"omitempty,max=200"`
}

// BookingListQuery holds pagination parameters for booking listings
type BookingListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
