package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost mirrors the work factor the service was designed around.
// Raising it trades login/registration latency for brute-force resistance.
const DefaultBcryptCost = 10

// Hasher produces salted bcrypt digests with a configurable cost factor.
// The digest is self-contained: cost and salt are encoded alongside the hash,
// so verification needs no side-channel.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher, clamping the cost to the range bcrypt supports.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Cost reports the configured work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash generates a salted bcrypt digest of the password.
func (h *Hasher) Hash(password string) (string, error) {
	sum, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: hash password: %w", err)
	}
	return string(sum), nil
}

// Verify reports whether the password matches the stored digest. The underlying
// comparison is constant time with respect to match/mismatch; a malformed
// digest counts as a mismatch rather than a fault.
func (h *Hasher) Verify(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}
