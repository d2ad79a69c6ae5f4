package events

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

// CreateEvent handles POST /api/v1/events
func (c *Controller) CreateEvent(ctx *gin.Context) {
	userIDStr, _ := ctx.Get("user_id")
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), userID, req)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create event", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Event created successfully", event)
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Event not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved successfully", event)
}

// ListEvents handles GET /api/v1/events
func (c *Controller) ListEvents(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	evts, total, err := c.service.ListEvents(ctx.Request.Context(), limit, offset)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Events retrieved successfully", gin.H{
		"events":      evts,
		"total_count": total,
	})
}

// ReconcileCapacity handles POST /api/v1/events/:id/reconcile-capacity
func (c *Controller) ReconcileCapacity(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	soldCount, err := c.service.ReconcileCapacity(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to reconcile capacity", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Capacity reconciled", gin.H{
		"event_id":   eventID.String(),
		"sold_count": soldCount,
	})
}
