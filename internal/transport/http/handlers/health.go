package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	secure bool
}

func NewHealthHandler(secure bool) *HealthHandler {
	return &HealthHandler{secure: secure}
}

// RegisterRoutes binds the health endpoint.
func (h *HealthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
}

// Health returns liveness plus whether the server is terminating TLS.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Secure:    h.secure,
		Timestamp: time.Now().UTC(),
	})
}
