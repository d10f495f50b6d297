package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/config"
)

const (
	schemaVersion      = "1.0"
	securityEventsType = "security.events"
)

// Mirror decorates an in-process event publisher, additionally producing every
// security event to Kafka for external monitoring. Request and console logs
// stay local: they are viewer chatter, not audit material.
type Mirror struct {
	inner    port.EventPublisher
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewMirror wraps the inner publisher with a Kafka mirror.
func NewMirror(inner port.EventPublisher, producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *Mirror {
	return &Mirror{inner: inner, producer: producer, logger: logger, appCfg: appCfg}
}

type eventEnvelope struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Timestamp time.Time            `json:"timestamp"`
	Version   string               `json:"version"`
	Payload   domain.SecurityEvent `json:"payload"`
	Metadata  map[string]string    `json:"metadata,omitempty"`
}

// PublishSecurityEvent fans out locally, then produces the event to Kafka.
func (m *Mirror) PublishSecurityEvent(ctx context.Context, event domain.SecurityEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	m.inner.PublishSecurityEvent(ctx, event)

	if err := m.produce(event); err != nil {
		m.logger.Warn("kafka mirror publish failed", zap.Error(err), zap.String("event_id", event.ID))
	}
}

// PublishRequestLog delegates to the in-process publisher.
func (m *Mirror) PublishRequestLog(ctx context.Context, entry domain.RequestLog) {
	m.inner.PublishRequestLog(ctx, entry)
}

// PublishConsoleLog delegates to the in-process publisher.
func (m *Mirror) PublishConsoleLog(ctx context.Context, line domain.ConsoleLog) {
	m.inner.PublishConsoleLog(ctx, line)
}

func (m *Mirror) produce(event domain.SecurityEvent) error {
	envelope := eventEnvelope{
		EventID:   event.ID,
		EventType: securityEventsType,
		Timestamp: event.Timestamp.UTC(),
		Version:   schemaVersion,
		Payload:   event,
		Metadata: map[string]string{
			"service":     m.appCfg.Name,
			"environment": m.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: m.producer.TopicName(securityEventsType),
		Key:   sarama.StringEncoder(string(event.Category)),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case m.producer.Producer().Input() <- message:
		return nil
	default:
		return fmt.Errorf("producer input full, dropping event")
	}
}

var _ port.EventPublisher = (*Mirror)(nil)
