package domain

import "time"

// EventCategory classifies security events on the live feed.
type EventCategory string

const (
	CategoryEncryption     EventCategory = "ENCRYPTION"
	CategoryAuthentication EventCategory = "AUTHENTICATION"
	CategoryAttackAttempt  EventCategory = "ATTACK_ATTEMPT"
	CategoryDatabase       EventCategory = "DATABASE"
)

// EventStatus is the outcome attached to a security event.
type EventStatus string

const (
	StatusSuccess   EventStatus = "SUCCESS"
	StatusFailure   EventStatus = "FAILURE"
	StatusSecure    EventStatus = "SECURE"
	StatusBlocked   EventStatus = "BLOCKED"
	StatusWarning   EventStatus = "WARNING"
	StatusProtected EventStatus = "PROTECTED"
)

// SecurityEvent is a transient observability message. It is never persisted;
// it only exists in flight on the event bus.
type SecurityEvent struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Category  EventCategory  `json:"category"`
	Action    string         `json:"action,omitempty"`
	Status    EventStatus    `json:"status"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// RequestLog mirrors one handled HTTP request onto the live feed.
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency_ns"`
	ClientIP  string        `json:"client_ip"`
	Secure    bool          `json:"secure"`
}

// ConsoleLog carries a server log line to connected dashboard viewers.
type ConsoleLog struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}
