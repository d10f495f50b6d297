package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/eventbus"
)

func TestStreamDeliversSecurityEvents(t *testing.T) {
	bus := eventbus.New(16)
	defer bus.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewStreamHandler(bus, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/events"))

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	// The subscription races the publish; keep publishing until the event
	// arrives or the context times out.
	publishDone := make(chan struct{})
	defer close(publishDone)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-publishDone:
				return
			case <-ticker.C:
				bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{
					Category: domain.CategoryAuthentication,
					Action:   "LOGIN",
					Status:   domain.StatusSuccess,
				})
			}
		}
	}()

	scanner := bufio.NewScanner(resp.Body)
	var sawEventName, sawPayload bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") && strings.Contains(line, "security-event") {
			sawEventName = true
		}
		if strings.HasPrefix(line, "data:") && strings.Contains(line, `"LOGIN"`) {
			sawPayload = true
		}
		if sawEventName && sawPayload {
			break
		}
	}

	require.True(t, sawEventName, "expected a security-event SSE frame")
	require.True(t, sawPayload, "expected the event payload in the stream")
}

func TestStreamClosesWhenBusCloses(t *testing.T) {
	bus := eventbus.New(16)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewStreamHandler(bus, zaptest.NewLogger(t)).RegisterRoutes(router.Group("/events"))

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/events/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 1024)
		for {
			if _, err := resp.Body.Read(buf); err != nil {
				return
			}
		}
	}()

	bus.Close()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not terminate after bus close")
	}
}
