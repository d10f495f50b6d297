package port

import (
	"context"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
)

// EventPublisher fans security and lifecycle events out to live subscribers.
// Publishing is fire-and-forget: a slow or absent subscriber must never stall
// or fail the publishing call.
type EventPublisher interface {
	PublishSecurityEvent(ctx context.Context, event domain.SecurityEvent)
	PublishRequestLog(ctx context.Context, entry domain.RequestLog)
	PublishConsoleLog(ctx context.Context, line domain.ConsoleLog)
}
