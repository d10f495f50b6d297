package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/logger"
	"github.com/stringuers/Secure-SAAS-platform/internal/infra/security"
	"github.com/stringuers/Secure-SAAS-platform/internal/repository"
)

const (
	// MinPasswordLength is the smallest password accepted at registration.
	MinPasswordLength = 8
	// MaxPasswordLength is the largest password accepted at registration,
	// bounded by bcrypt's 72-byte input limit.
	MaxPasswordLength = 72
)

var (
	// ErrValidation indicates malformed input the client must correct and resubmit.
	ErrValidation = errors.New("validation error")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates the email or password is wrong. Callers
	// must not reveal which: the same error covers unknown users and bad passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates the subject of a valid token no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService orchestrates registration, credential verification, and session
// token issuance. It holds no state of its own beyond its collaborators; the
// credential store is the sole synchronization point.
type AuthService struct {
	users  port.UserStore
	hasher port.PasswordHasher
	tokens *security.TokenIssuer
	events port.EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserStore,
	hasher port.PasswordHasher,
	tokens *security.TokenIssuer,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Register creates a credential record for a new user. The plaintext password
// is hashed immediately and not retained beyond this call.
func (s *AuthService) Register(ctx context.Context, email, password string) (domain.User, error) {
	if email == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	// Insert is atomic with the existence check inside the store, so a
	// registration racing this one surfaces here as a duplicate.
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	s.emitDatabase(ctx, "INSERT")
	s.emitAuth(ctx, "REGISTER", domain.StatusSuccess, user.Email)
	s.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return user.Sanitized(), nil
}

// Login verifies credentials and issues a session token with the configured
// lifetime. Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	s.emitDatabase(ctx, "SELECT")
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.emitAuth(ctx, "LOGIN", domain.StatusFailure, email)
			s.log.Info("login failed: unknown user", zap.String("email", logger.MaskEmail(email)))
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.emitAuth(ctx, "LOGIN", domain.StatusFailure, email)
		s.log.Info("login failed: password mismatch", zap.String("email", logger.MaskEmail(email)))
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email, 0)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	s.emitAuth(ctx, "LOGIN", domain.StatusSuccess, user.Email)
	s.log.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.String("token", logger.MaskString(token)),
	)

	return token, user.Sanitized(), nil
}

// Profile returns the record behind a verified token subject.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	return user.Sanitized(), nil
}

// ParseToken validates a session token, surfacing the issuer's invalid/expired
// classification unchanged.
func (s *AuthService) ParseToken(token string) (*security.SessionClaims, error) {
	return s.tokens.Verify(token)
}

// TokenTTL reports the configured session lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

func (s *AuthService) emitAuth(ctx context.Context, action string, status domain.EventStatus, email string) {
	if s.events == nil {
		return
	}
	s.events.PublishSecurityEvent(ctx, domain.SecurityEvent{
		Category: domain.CategoryAuthentication,
		Action:   action,
		Status:   status,
		Detail:   map[string]any{"user": email},
	})
}

func (s *AuthService) emitDatabase(ctx context.Context, queryType string) {
	if s.events == nil {
		return
	}
	s.events.PublishSecurityEvent(ctx, domain.SecurityEvent{
		Category: domain.CategoryDatabase,
		Action:   queryType,
		Status:   domain.StatusProtected,
		Detail:   map[string]any{"query_type": queryType, "encrypted": true},
	})
}
