package bookings

import (
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	bkg := rg.Group("/bookings")
	bkg.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bkg.POST("", controller.CreateBooking) // POST /api/v1/bookings
		bkg.GET("/:id", controller.GetBooking) // GET  /api/v1/bookings/:id
	}

	usr := rg.Group("/users")
	usr.Use(middleware.JWTAuthWithConfig(cfg))
	{
		usr.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}
}
