package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/stringuers/Secure-SAAS-platform/internal/core/domain"
	"github.com/stringuers/Secure-SAAS-platform/internal/core/port"
)

// bcrypt encodes version, cost, and a 22 character salt in the first 29
// bytes of the hash.
const bcryptSaltPrefixLen = 29

// DemoHandler exposes the interactive security demonstrations. These
// endpoints exist for teaching: they show what hashing actually produces and
// how hostile input is reported, without touching real credentials.
type DemoHandler struct {
	hasher port.PasswordHasher
	events port.EventPublisher
}

func NewDemoHandler(hasher port.PasswordHasher, events port.EventPublisher) *DemoHandler {
	return &DemoHandler{hasher: hasher, events: events}
}

// RegisterRoutes binds the demo endpoints.
func (h *DemoHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/encrypt-password", h.EncryptPassword)
	r.POST("/simulate-attack", h.SimulateAttack)
}

// EncryptPassword hashes the submitted password and returns the anatomy of
// the result: full hash, embedded salt, cost factor, timing, and a zxcvbn
// strength score. The plaintext is never logged or stored.
func (h *DemoHandler) EncryptPassword(c *gin.Context) {
	var req EncryptPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "password is required"))
		return
	}

	start := time.Now()
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrorResponse(c, "failed to hash password"))
		return
	}
	elapsed := time.Since(start)

	salt := hash
	if len(hash) >= bcryptSaltPrefixLen {
		salt = hash[:bcryptSaltPrefixLen]
	}

	strength := zxcvbn.PasswordStrength(req.Password, nil).Score

	if h.events != nil {
		h.events.PublishSecurityEvent(c.Request.Context(), domain.SecurityEvent{
			Category: domain.CategoryEncryption,
			Action:   "HASH_DEMO",
			Status:   domain.StatusSecure,
			Detail: map[string]any{
				"algorithm":   "bcrypt",
				"cost":        h.hasher.Cost(),
				"duration_ms": elapsed.Milliseconds(),
				"strength":    strength,
			},
		})
	}

	c.JSON(http.StatusOK, EncryptPasswordResponse{
		Hash:       hash,
		Salt:       salt,
		Cost:       h.hasher.Cost(),
		DurationMS: elapsed.Milliseconds(),
		Strength:   strength,
	})
}

// SimulateAttack runs a scripted attack scenario. Nothing is executed; the
// handler only reports what the defenses would do, and every call lands on
// the live feed as a blocked attempt.
func (h *DemoHandler) SimulateAttack(c *gin.Context) {
	var req SimulateAttackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrorResponse(c, "invalid attack payload"))
		return
	}

	attackType := strings.ToLower(strings.TrimSpace(req.Type))
	if attackType == "" {
		attackType = "sql-injection"
	}

	var detail string
	switch attackType {
	case "sql-injection":
		detail = "input treated as data, not SQL: parameterized queries neutralize the payload"
	case "xss":
		detail = "payload would be HTML-escaped on output: script never executes"
	case "brute-force":
		detail = "rate limiting throttles repeated credential guesses per client"
	default:
		detail = "unrecognized attack type rejected by input validation"
	}

	if h.events != nil {
		h.events.PublishSecurityEvent(c.Request.Context(), domain.SecurityEvent{
			Category: domain.CategoryAttackAttempt,
			Action:   strings.ToUpper(strings.ReplaceAll(attackType, "-", "_")),
			Status:   domain.StatusBlocked,
			Detail: map[string]any{
				"type":    attackType,
				"payload": req.Payload,
				"detail":  detail,
			},
		})
	}

	c.JSON(http.StatusOK, SimulateAttackResponse{
		Status:    "blocked",
		Type:      attackType,
		Detail:    detail,
		Mitigated: true,
	})
}
