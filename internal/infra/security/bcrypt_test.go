package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifySuccess(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)
	password := "correct horse battery staple"

	encoded, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if encoded == "" {
		t.Fatal("Hash returned empty string")
	}

	if !strings.HasPrefix(encoded, "$2") {
		t.Fatalf("unexpected digest format: %q", encoded)
	}

	if !hasher.Verify(password, encoded) {
		t.Fatal("Verify returned false for correct password")
	}
}

func TestVerifyIncorrectPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if hasher.Verify("Tr0ub4dor&3", encoded) {
		t.Fatal("Verify returned true for incorrect password")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if hasher.Verify("password", "not-a-bcrypt-digest") {
		t.Fatal("Verify returned true for malformed digest")
	}
}

func TestVerifyEmptyInputs(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	if hasher.Verify("", "") {
		t.Fatal("Verify should return false for empty inputs")
	}
}

func TestDigestEncodesCost(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	encoded, err := hasher.Hash("change-me")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Fatalf("expected cost %d encoded in digest, got %d", bcrypt.MinCost, cost)
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	if got := NewHasher(0).Cost(); got != DefaultBcryptCost {
		t.Fatalf("expected default cost %d for zero input, got %d", DefaultBcryptCost, got)
	}

	if got := NewHasher(bcrypt.MaxCost + 10).Cost(); got != bcrypt.MaxCost {
		t.Fatalf("expected cost clamped to %d, got %d", bcrypt.MaxCost, got)
	}
}
