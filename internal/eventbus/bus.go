// Package eventbus implements the in-process fan-out of security events,
// request logs, and console lines to live dashboard subscribers.
package eventbus

import (
	"context"
	"sync"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
)

// MessageKind discriminates the payload carried by a bus message.
type MessageKind string

const (
	KindSecurityEvent MessageKind = "security-event"
	KindRequestLog    MessageKind = "network-request"
	KindConsoleLog    MessageKind = "console-log"
)

// Message is the envelope delivered to subscribers.
type Message struct {
	Kind     MessageKind           `json:"kind"`
	Security *domain.SecurityEvent `json:"security,omitempty"`
	Request  *domain.RequestLog    `json:"request,omitempty"`
	Console  *domain.ConsoleLog    `json:"console,omitempty"`
}

const defaultBufferSize = 64

// Bus is a fire-and-forget broker. Each subscriber owns a bounded buffer;
// when it fills, the oldest message is dropped so Publish never blocks.
// Delivery starts at the moment of subscription: there is no replay.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	closed  bool
	dropped uint64
}

// Subscription is a live feed handed to one viewer.
type Subscription struct {
	bus *Bus
	ch  chan Message
}

// C returns the subscriber's receive channel. Receipt order matches publish
// order for this subscriber; no ordering is promised across subscribers.
func (s *Subscription) C() <-chan Message {
	return s.ch
}

// Close detaches the subscriber from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// New constructs a Bus with the given per-subscriber buffer size.
func New(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		buffer: bufferSize,
	}
}

// Subscribe registers a new live feed. Events published before the call are
// not replayed.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{bus: b, ch: make(chan Message, b.buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Close detaches every subscriber and rejects future publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}

// Dropped reports how many messages were discarded under backpressure.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

func (b *Bus) publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			// Buffer full: drop the oldest entry to make room.
			select {
			case <-sub.ch:
				b.dropped++
			default:
			}
			select {
			case sub.ch <- msg:
			default:
				b.dropped++
			}
		}
	}
}

// PublishSecurityEvent fans a security event out to all current subscribers,
// filling in id and timestamp when absent.
func (b *Bus) PublishSecurityEvent(_ context.Context, event domain.SecurityEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	b.publish(Message{Kind: KindSecurityEvent, Security: &event})
}

// PublishRequestLog fans a request-log entry out to all current subscribers.
func (b *Bus) PublishRequestLog(_ context.Context, entry domain.RequestLog) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	b.publish(Message{Kind: KindRequestLog, Request: &entry})
}

// PublishConsoleLog fans a console line out to all current subscribers.
func (b *Bus) PublishConsoleLog(_ context.Context, line domain.ConsoleLog) {
	if line.Timestamp.IsZero() {
		line.Timestamp = time.Now().UTC()
	}
	b.publish(Message{Kind: KindConsoleLog, Console: &line})
}

// LogHook returns a zap hook mirroring every log entry onto the bus so
// connected dashboards see server logs live.
func LogHook(bus *Bus) func(zapcore.Entry) error {
	return func(entry zapcore.Entry) error {
		bus.PublishConsoleLog(context.Background(), domain.ConsoleLog{
			Timestamp: entry.Time.UTC(),
			Level:     entry.Level.String(),
			Message:   entry.Message,
		})
		return nil
	}
}

// Attach wires the hook into an existing logger.
func Attach(log *zap.Logger, bus *Bus) *zap.Logger {
	return log.WithOptions(zap.Hooks(LogHook(bus)))
}

var _ port.EventPublisher = (*Bus)(nil)
