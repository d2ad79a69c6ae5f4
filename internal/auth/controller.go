package auth

import (
	"net/http"

	"ticketly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Register handles POST /api/v1/auth/register
func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrUserAlreadyExists:
			response.Error(ctx, http.StatusConflict, "User with this email already exists", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to register user", nil)
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "User registered successfully", resp)
}

// Login handles POST /api/v1/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", resp)
}

// Refresh handles POST /api/v1/auth/refresh
func (c *Controller) Refresh(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tokens, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(ctx, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Token refreshed", tokens)
}
