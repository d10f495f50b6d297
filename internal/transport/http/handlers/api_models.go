// Package handlers contains the HTTP endpoint implementations.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/transport/http/middleware"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserSummary is the public projection of a user record.
type UserSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// RegisterResponse confirms account creation.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      UserSummary `json:"user"`
}

// ProfileResponse wraps the authenticated user's record.
type ProfileResponse struct {
	User UserSummary `json:"user"`
}

// HealthResponse reports service liveness and transport security.
type HealthResponse struct {
	Status    string    `json:"status"`
	Secure    bool      `json:"secure"`
	Timestamp time.Time `json:"timestamp"`
}

// EncryptPasswordRequest is the demo hashing payload.
type EncryptPasswordRequest struct {
	Password string `json:"password"`
}

// EncryptPasswordResponse shows how a password is stored at rest.
type EncryptPasswordResponse struct {
	Hash       string `json:"hash"`
	Salt       string `json:"salt"`
	Cost       int    `json:"cost"`
	DurationMS int64  `json:"duration_ms"`
	Strength   int    `json:"strength"`
}

// SimulateAttackRequest names the scripted attack to demonstrate.
type SimulateAttackRequest struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// SimulateAttackResponse reports the simulated outcome.
type SimulateAttackResponse struct {
	Status    string `json:"status"`
	Type      string `json:"type"`
	Detail    string `json:"detail"`
	Mitigated bool   `json:"mitigated"`
}
