package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stringuers/Secure-SAAS-platform/internal/usecase"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds the authentication endpoints. Login middleware, such
// as a rate limiter, runs before the login handler only.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddleware ...gin.HandlerFunc) {
	r.POST("/register", h.Register)

	login := append(append([]gin.HandlerFunc{}, loginMiddleware...), h.Login)
	r.POST("/login", login...)
}

// Register creates a new account from an email and password.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "invalid registration payload"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, newErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrEmailTaken):
			c.JSON(http.StatusConflict, newErrorResponse(c, "email already registered"))
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to register user"))
		}
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "user registered successfully",
		User:    newUserSummary(user),
	})
}

// Login verifies credentials and returns a session token. Unknown users and
// wrong passwords produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "invalid login payload"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			c.JSON(http.StatusBadRequest, newErrorResponse(c, err.Error()))
		case errors.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, newErrorResponse(c, "invalid credentials"))
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to log in"))
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message:   "login successful",
		Token:     token,
		ExpiresIn: int64(h.auth.TokenTTL().Seconds()),
		User:      newUserSummary(user),
	})
}
