package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	appLogger "github.com/stringuers/Secure-SAAS-platform/internal/infra/logger"
)

// Logger emits an access log for every request and mirrors the entry onto the
// live feed so connected dashboards see traffic as it happens. Request bodies
// are never logged; the client IP is masked.
func Logger(log *zap.Logger, events port.EventPublisher, secure bool) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		requestID := requestIDFromContext(c.Request.Context())
		clientIP := appLogger.MaskIP(c.ClientIP())

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", latency),
			zap.String("client_ip", clientIP),
		}

		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		} else {
			log.Info("request completed", fields...)
		}

		if events != nil {
			events.PublishRequestLog(c.Request.Context(), domain.RequestLog{
				Timestamp: start.UTC(),
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Status:    status,
				Latency:   latency,
				ClientIP:  clientIP,
				Secure:    secure,
			})
		}
	}
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(appLogger.RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}
