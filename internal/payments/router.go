package payments

import (
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures all payment-related routes
func SetupPaymentRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	pay := rg.Group("/payments")
	pay.Use(middleware.JWTAuthWithConfig(cfg))
	{
		pay.POST("/order", controller.CreateOrder)    // POST /api/v1/payments/order
		pay.POST("/verify", controller.VerifyPayment) // POST /api/v1/payments/verify
		pay.POST("/refund", controller.ProcessRefund) // POST /api/v1/payments/refund
	}
}
