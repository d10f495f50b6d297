package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/eventbus"
)

const streamHeartbeatInterval = 15 * time.Second

// StreamHandler serves the live dashboard feed over Server-Sent Events. Each
// connection gets its own bus subscription; a slow or stalled viewer only
// loses its own messages.
type StreamHandler struct {
	bus *eventbus.Bus
	log *zap.Logger
}

func NewStreamHandler(bus *eventbus.Bus, log *zap.Logger) *StreamHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StreamHandler{bus: bus, log: log}
}

// RegisterRoutes binds the event stream endpoint.
func (h *StreamHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stream", h.Stream)
}

// Stream subscribes the client to the bus and relays messages as SSE events
// named after the message kind. Messages published before the subscription
// are not replayed. Heartbeat comments keep idle connections from being
// reaped by intermediaries.
func (h *StreamHandler) Stream(c *gin.Context) {
	sub := h.bus.Subscribe()
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.log.Debug("stream subscriber connected")

	heartbeat := time.NewTicker(streamHeartbeatInterval)
	defer heartbeat.Stop()

	clientGone := c.Request.Context().Done()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg, ok := <-sub.C():
			if !ok {
				return false
			}
			switch msg.Kind {
			case eventbus.KindSecurityEvent:
				c.SSEvent(string(msg.Kind), msg.Security)
			case eventbus.KindRequestLog:
				c.SSEvent(string(msg.Kind), msg.Request)
			case eventbus.KindConsoleLog:
				c.SSEvent(string(msg.Kind), msg.Console)
			}
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})

	h.log.Debug("stream subscriber disconnected")
}
