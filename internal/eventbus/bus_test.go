package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
)

func receiveOne(t *testing.T, sub *Subscription) Message {
	t.Helper()

	select {
	case msg := <-sub.C():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestSubscriberReceivesPublishedEvent(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Close()

	bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{
		Category: domain.CategoryAuthentication,
		Action:   "REGISTER",
		Status:   domain.StatusSuccess,
	})

	msg := receiveOne(t, sub)
	if msg.Kind != KindSecurityEvent {
		t.Fatalf("unexpected kind: %s", msg.Kind)
	}
	if msg.Security == nil || msg.Security.Category != domain.CategoryAuthentication {
		t.Fatalf("unexpected payload: %+v", msg.Security)
	}
	if msg.Security.ID == "" || msg.Security.Timestamp.IsZero() {
		t.Fatal("expected id and timestamp to be filled in")
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{
		Category: domain.CategoryAuthentication,
		Status:   domain.StatusSuccess,
	})

	late := bus.Subscribe()
	defer late.Close()

	select {
	case msg := <-late.C():
		t.Fatalf("late subscriber received replayed message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPerSubscriberOrderMatchesPublishOrder(t *testing.T) {
	bus := New(16)
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Close()

	actions := []string{"first", "second", "third"}
	for _, action := range actions {
		bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{
			Category: domain.CategoryAuthentication,
			Action:   action,
			Status:   domain.StatusSuccess,
		})
	}

	for _, want := range actions {
		msg := receiveOne(t, sub)
		if msg.Security.Action != want {
			t.Fatalf("expected action %q, got %q", want, msg.Security.Action)
		}
	}
}

func TestSlowSubscriberNeverBlocksPublish(t *testing.T) {
	bus := New(2)
	defer bus.Close()

	// Never drained: the subscriber buffer fills after two messages.
	sub := bus.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{
				Category: domain.CategoryDatabase,
				Status:   domain.StatusProtected,
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	if bus.Dropped() == 0 {
		t.Fatal("expected drops under backpressure")
	}
}

func TestDropOldestKeepsNewestMessages(t *testing.T) {
	bus := New(2)
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Close()

	for _, action := range []string{"a", "b", "c"} {
		bus.PublishSecurityEvent(context.Background(), domain.SecurityEvent{Action: action})
	}

	first := receiveOne(t, sub)
	if first.Security.Action != "b" {
		t.Fatalf("expected oldest message dropped, head is %q", first.Security.Action)
	}
	second := receiveOne(t, sub)
	if second.Security.Action != "c" {
		t.Fatalf("expected newest message retained, got %q", second.Security.Action)
	}
}

func TestFanOutToMultipleSubscribers(t *testing.T) {
	bus := New(8)
	defer bus.Close()

	one := bus.Subscribe()
	defer one.Close()
	two := bus.Subscribe()
	defer two.Close()

	bus.PublishRequestLog(context.Background(), domain.RequestLog{Method: "GET", Path: "/api/health"})

	for _, sub := range []*Subscription{one, two} {
		msg := receiveOne(t, sub)
		if msg.Kind != KindRequestLog || msg.Request.Path != "/api/health" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
}

func TestCloseUnblocksSubscribers(t *testing.T) {
	bus := New(8)
	sub := bus.Subscribe()

	bus.Close()

	if _, ok := <-sub.C(); ok {
		t.Fatal("expected channel closed after bus shutdown")
	}

	// Publishing after close must not panic.
	bus.PublishConsoleLog(context.Background(), domain.ConsoleLog{Message: "late"})
}
