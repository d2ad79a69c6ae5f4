package bookings

import (
	"net/http"
	"strconv"

	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := callerUUID(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create booking", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	userID, ok := callerUUID(ctx)
	if !ok {
		return
	}

	roleInterface, _ := ctx.Get("user_role")
	role, _ := roleInterface.(string)

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID, role)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := callerUUID(ctx)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	list, total, err := c.service.GetUserBookings(ctx.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get user bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings":    list,
		"total_count": total,
	})
}

// callerUUID extracts the authenticated caller's uuid from the gin
// context, writing the error response itself on failure.
func callerUUID(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", gin.H{"code": "unauthenticated"})
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		response.Error(ctx, http.StatusInternalServerError, "Invalid user ID format", nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}
