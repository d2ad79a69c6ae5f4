package payments

import (
	"errors"
	"net/http"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateOrder handles POST /api/v1/payments/order
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.CreateOrder(ctx.Request.Context(), middleware.CallerID(ctx), req)
	if err != nil {
		respondError(ctx, err, "Failed to create payment order")
		return
	}

	response.Success(ctx, http.StatusCreated, "Payment order created successfully", resp)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.VerifyPayment(ctx.Request.Context(), middleware.CallerID(ctx), req)
	if err != nil {
		respondError(ctx, err, "Payment verification failed")
		return
	}

	response.Success(ctx, http.StatusOK, "Payment verified successfully", resp)
}

// ProcessRefund handles POST /api/v1/payments/refund
func (c *Controller) ProcessRefund(ctx *gin.Context) {
	var req RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.ProcessRefund(ctx.Request.Context(), middleware.CallerID(ctx), req)
	if err != nil {
		respondError(ctx, err, "Refund failed")
		return
	}

	response.Success(ctx, http.StatusOK, "Refund processed successfully", resp)
}

// respondError translates service errors into the standard envelope,
// carrying the machine-readable code alongside the message.
func respondError(ctx *gin.Context, err error, fallback string) {
	var perr *Error
	if errors.As(err, &perr) {
		response.Error(ctx, perr.Code.HTTPStatus(), perr.Message, gin.H{"code": string(perr.Code)})
		return
	}
	response.Error(ctx, http.StatusInternalServerError, fallback, nil)
}
