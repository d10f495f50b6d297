package port

import (
	"context"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
)

// UserStore exposes persistence behavior for credential records.
//
// Insert must be atomic with the existence check: concurrent inserts for the
// same email yield exactly one success, the rest fail with repository.ErrDuplicate.
type UserStore interface {
	Insert(ctx context.Context, user domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
