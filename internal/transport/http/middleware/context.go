package middleware

import (
	"github.com/gin-gonic/gin"
	uuid "github.com/google/uuid"
)

const (
	// TraceIDHeader is the HTTP header carrying the trace identifier.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key for the trace identifier.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key for the authenticated user id.
	UserIDKey = "user_id"
	// ClaimsKey is the gin context key for verified session claims.
	ClaimsKey = "claims"
)

// EnrichContext attaches a trace identifier to each request so error payloads
// and the live feed can be correlated with server logs.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID retrieves the trace identifier from the context.
func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(TraceIDKey); exists {
		if id, ok := traceID.(string); ok {
			return id
		}
	}
	return ""
}
