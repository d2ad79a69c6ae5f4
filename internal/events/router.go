package events

import (
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupEventRoutes configures all event-related routes
func SetupEventRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	evts := rg.Group("/events")
	{
		// Public browsing
		evts.GET("", controller.ListEvents)
		evts.GET("/:id", controller.GetEvent)

		// Organizer/admin operations
		authed := evts.Group("")
		authed.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles("ORGANIZER", "ADMIN"))
		{
			authed.POST("", controller.CreateEvent)
			authed.POST("/:id/reconcile-capacity", controller.ReconcileCapacity)
		}
	}
}
