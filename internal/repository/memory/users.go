// Package memory provides the transient in-process credential store the
// service runs with by default. Records live until process teardown.
package memory

import (
	"context"
	"sync"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
	"github.com/stringuers/Secure-SAAS-platform/internal/repository"
)

// UserStore keeps users in two mutex-guarded maps keyed by email and id.
// The existence check and insert happen under one lock, so concurrent
// duplicate registrations yield exactly one success.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	byID    map[string]domain.User
}

// NewUserStore constructs an empty in-memory store.
func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]domain.User),
		byID:    make(map[string]domain.User),
	}
}

// Insert stores the record, failing with repository.ErrDuplicate when the
// email is already taken.
func (s *UserStore) Insert(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return repository.ErrDuplicate
	}

	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

// GetByEmail looks a record up by its email, case-sensitive as stored.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

// GetByID looks a record up by its opaque identifier.
func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

// Len reports the number of stored records.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byEmail)
}

var _ port.UserStore = (*UserStore)(nil)
