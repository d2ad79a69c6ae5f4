package routes

import (
	"net/http"
	"time"

	"ticketly/internal/auth"
	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/payments"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/tickets"
	"ticketly/internal/users"
	"ticketly/pkg/cache"
	"ticketly/pkg/gateway"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	gateway  gateway.Client
	producer notifications.Producer // nil when Kafka is disabled
	log      *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, gw gateway.Client, producer notifications.Producer, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		gateway:  gw,
		producer: producer,
		log:      log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	db := r.db.GetPostgreSQL()

	userRepo := users.NewRepository(db)
	eventRepo := events.NewRepository(db)
	ticketRepo := tickets.NewRepository(db)
	bookingRepo := bookings.NewRepository(db)
	paymentRepo := payments.NewRepository(db)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		authController := auth.NewController(auth.NewService(userRepo, r.config))
		auth.SetupAuthRoutes(api, authController)

		eventController := events.NewController(events.NewService(eventRepo))
		events.SetupEventRoutes(api, r.config, eventController)

		bookingController := bookings.NewController(bookings.NewService(bookingRepo, eventRepo, ticketRepo))
		bookings.SetupBookingRoutes(api, r.config, bookingController)

		paymentService := payments.NewService(
			paymentRepo,
			bookingRepo,
			eventRepo,
			userRepo,
			r.gateway,
			cache.NewService(r.db.GetRedisClient()),
			r.config.Redis.IdempotencyTTL,
			r.producer,
			r.log,
		)
		payments.SetupPaymentRoutes(api, r.config, payments.NewController(paymentService))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ticketly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ticketly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}
