package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	appLogger "github.com/stringuers/Secure-SAAS-platform/internal/infra/logger"
)

// RateLimitStore defines the persistence operations required by the middleware.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
}

// RateLimitRule configures a sliding-window limit scoped by client IP.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// RateLimiter throttles repeated requests per client and reports blocked
// attempts onto the live feed as attack activity.
type RateLimiter struct {
	store  RateLimitStore
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds a reusable rate limiter middleware helper.
func NewRateLimiter(store RateLimitStore, events port.EventPublisher, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		store:  store,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// RateLimit returns a Gin middleware enforcing the provided rule. A store
// failure fails open: the request proceeds and the error is logged.
func (rl *RateLimiter) RateLimit(rule RateLimitRule) gin.HandlerFunc {
	if rule.Name == "" {
		rule.Name = "default"
	}

	return func(c *gin.Context) {
		if rl.store == nil || rule.Limit <= 0 || rule.Window <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			c.Next()
			return
		}

		now := rl.now()
		key := fmt.Sprintf("%s:%s", rule.Name, clientIP)
		ctx := c.Request.Context()

		if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
			rl.logger.Warn("rate limit trim failed", zap.String("rule", rule.Name), zap.Error(err))
			c.Next()
			return
		}

		count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
		if err != nil {
			rl.logger.Warn("rate limit count failed", zap.String("rule", rule.Name), zap.Error(err))
			c.Next()
			return
		}

		if count >= rule.Limit {
			rl.block(c, rule, clientIP, now)
			return
		}

		if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
			rl.logger.Warn("rate limit record failed", zap.String("rule", rule.Name), zap.Error(err))
		}

		remaining := rule.Limit - count - 1
		if remaining < 0 {
			remaining = 0
		}
		headers := c.Writer.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(rule.Window).Unix(), 10))

		c.Next()
	}
}

func (rl *RateLimiter) block(c *gin.Context, rule RateLimitRule, clientIP string, now time.Time) {
	retrySeconds := int(math.Ceil(rule.Window.Seconds()))

	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
	headers.Set("X-RateLimit-Remaining", "0")
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(rule.Window).Unix(), 10))
	headers.Set("Retry-After", strconv.Itoa(retrySeconds))

	maskedIP := appLogger.MaskIP(clientIP)
	rl.logger.Warn("rate limit exceeded",
		zap.String("rule", rule.Name),
		zap.String("client_ip", maskedIP),
		zap.Int("limit", rule.Limit))

	if rl.events != nil {
		rl.events.PublishSecurityEvent(c.Request.Context(), domain.SecurityEvent{
			Category: domain.CategoryAttackAttempt,
			Action:   "RATE_LIMIT",
			Status:   domain.StatusBlocked,
			Detail: map[string]any{
				"rule":      rule.Name,
				"client_ip": maskedIP,
				"limit":     rule.Limit,
				"window":    rule.Window.String(),
			},
		})
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   fmt.Sprintf("too many requests, try again in %d seconds", retrySeconds),
		TraceID: GetTraceID(c),
	})
}
