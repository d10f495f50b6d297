package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	uuid "github.com/google/uuid"

	"github.com/stringuers/Secure-SAAS-platform/internal/infra/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key for the request identifier.
	RequestIDKey = "request_id"
)

// RequestID assigns a correlation identifier to each request. A caller-supplied
// id is honored only when it is a well-formed UUID; anything else is replaced
// so log correlation keys stay uniform and unspoofable.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(RequestIDKey, reqID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
