package port

// PasswordHasher produces and verifies salted one-way password digests.
// Verify must treat a malformed digest as a mismatch, never as a fault.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, encoded string) bool
	Cost() int
}
