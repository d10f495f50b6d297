package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/security"
	"github.com/stringuers/Secure-SAAS-platform/internal/repository/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (r *recordingPublisher) PublishSecurityEvent(_ context.Context, event domain.SecurityEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) PublishRequestLog(context.Context, domain.RequestLog) {}

func (r *recordingPublisher) PublishConsoleLog(context.Context, domain.ConsoleLog) {}

func (r *recordingPublisher) byCategory(category domain.EventCategory) []domain.SecurityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.SecurityEvent
	for _, event := range r.events {
		if event.Category == category {
			out = append(out, event)
		}
	}
	return out
}

func newTestService(t *testing.T) (*AuthService, *recordingPublisher) {
	t.Helper()

	issuer, err := security.NewTokenIssuer("test-secret", "secure-saas-platform", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	events := &recordingPublisher{}
	svc := NewAuthService(memory.NewUserStore(), security.NewHasher(4), issuer, events, zaptest.NewLogger(t))
	return svc, events
}

func TestRegisterThenLogin(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected assigned user id")
	}
	if user.PasswordHash != "" {
		t.Fatal("register response must not carry the password hash")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}

	token, logged, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("unexpected user id: %s", logged.ID)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	auth := events.byCategory(domain.CategoryAuthentication)
	if len(auth) != 2 {
		t.Fatalf("expected 2 authentication events, got %d", len(auth))
	}
	if auth[0].Action != "REGISTER" || auth[0].Status != domain.StatusSuccess {
		t.Fatalf("unexpected register event: %+v", auth[0])
	}
	if auth[1].Action != "LOGIN" || auth[1].Status != domain.StatusSuccess {
		t.Fatalf("unexpected login event: %+v", auth[1])
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"empty password", "alice@example.com", ""},
		{"short password", "alice@example.com", "short"},
		{"overlong password", "alice@example.com", strings.Repeat("a", 100)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.email, tc.password); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestPasswordLengthBoundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	longest := strings.Repeat("p", MaxPasswordLength)
	if _, err := svc.Register(ctx, "edge@example.com", longest); err != nil {
		t.Fatalf("Register with %d-byte password returned error: %v", MaxPasswordLength, err)
	}
	if _, _, err := svc.Login(ctx, "edge@example.com", longest); err != nil {
		t.Fatalf("Login with %d-byte password returned error: %v", MaxPasswordLength, err)
	}

	tooLong := strings.Repeat("p", MaxPasswordLength+1)
	if _, err := svc.Register(ctx, "edge2@example.com", tooLong); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for %d-byte password, got %v", MaxPasswordLength+1, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob@example.com", "password123"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	if _, err := svc.Register(ctx, "bob@example.com", "different-password"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestConcurrentRegistrationsSameEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "race@example.com", "password123")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrEmailTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, successes, conflicts)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol@example.com", "password123"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	_, _, wrongPassword := svc.Login(ctx, "carol@example.com", "not-the-password")
	_, _, unknownUser := svc.Login(ctx, "nobody@example.com", "password123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatal("failure modes must be externally indistinguishable")
	}

	var failures int
	for _, event := range events.byCategory(domain.CategoryAuthentication) {
		if event.Action == "LOGIN" && event.Status == domain.StatusFailure {
			failures++
		}
	}
	if failures != 2 {
		t.Fatalf("expected 2 login failure events, got %d", failures)
	}
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newTestService(t)

	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "dave@example.com", "password123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	profile, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.Email != "dave@example.com" {
		t.Fatalf("unexpected email: %s", profile.Email)
	}
	if profile.PasswordHash != "" {
		t.Fatal("profile must not carry the password hash")
	}

	if _, err := svc.Profile(ctx, "missing-id"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
