package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	uuid "github.com/google/uuid"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/repository"
)

func testUser(email string) domain.User {
	return domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestInsertAndLookup(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()
	user := testUser("alice@example.com")

	if err := store.Insert(ctx, user); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	byEmail, err := store.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("unexpected user id: %s", byEmail.ID)
	}

	byID, err := store.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if byID.Email != user.Email {
		t.Fatalf("unexpected email: %s", byID.Email)
	}
}

func TestLookupMissing(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	if _, err := store.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertDuplicateEmail(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testUser("bob@example.com")); err != nil {
		t.Fatalf("first Insert returned error: %v", err)
	}

	if err := store.Insert(ctx, testUser("bob@example.com")); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestEmailIsCaseSensitive(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testUser("Carol@example.com")); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	if _, err := store.GetByEmail(ctx, "carol@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected case-sensitive lookup to miss, got %v", err)
	}
}

func TestConcurrentDuplicateInsertsYieldOneSuccess(t *testing.T) {
	store := NewUserStore()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Insert(ctx, testUser("race@example.com"))
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repository.ErrDuplicate):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly 1 successful insert, got %d", successes)
	}
	if conflicts != n-1 {
		t.Fatalf("expected %d conflicts, got %d", n-1, conflicts)
	}
	if store.Len() != 1 {
		t.Fatalf("expected a single stored record, got %d", store.Len())
	}
}
