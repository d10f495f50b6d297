package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/middleware"
	"github.com/stringuers/Secure-SAAS-platform/internal/usecase"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct {
	auth *usecase.AuthService
}

func NewUserHandler(auth *usecase.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// RegisterRoutes binds the user endpoints. The group is expected to carry the
// session gate.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.Profile)
}

// Profile returns the record behind the verified session token. The subject
// can vanish between issuance and use when the in-memory store restarts, so
// 404 is a reachable outcome even with a valid token.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, newErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, newErrorResponse(c, "user not found"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to load profile"))
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: newUserSummary(user)})
}
