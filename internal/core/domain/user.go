package domain

import "time"

// User is the credential record owned by the user store.
// PasswordHash must never be serialized to clients or logged in clear form.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Sanitized returns a copy with the password hash stripped, safe for responses.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
