package http

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

// Version is reported by the health check
const Version = "1.0.0"

const healthTimeout = 2 * time.Second

// Handlers contains all HTTP request handlers
type Handlers struct {
	services  Services
	tokens    *TokenIssuer
	checks    map[string]HealthCheck
	maxUpload int64
	now       func() time.Time
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, tokens *TokenIssuer, checks map[string]HealthCheck, maxUpload int64, logger Logger) *Handlers {
	return &Handlers{
		services:  services,
		tokens:    tokens,
		checks:    checks,
		maxUpload: maxUpload,
		now:       time.Now,
		logger:    logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the new session
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
	ExpiresIn int64       `json:"expires_in"`
	User      entity.User `json:"user"`
}

// SessionResponse describes the session behind a token
type SessionResponse struct {
	User      entity.User `json:"user"`
	ExpiresAt string      `json:"expires_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  h.now().UTC().Format(time.RFC3339),
		Version:    Version,
		Components: make(map[string]string, len(names)),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Error("Health check failed", "component", name, "error", err)
			resp.Components[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Components[name] = "ok"
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, Response{Success: code == http.StatusOK, Data: resp})
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.services.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	token, err := h.tokens.Issue(p.Session)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	ok(c, LoginResponse{
		Token:     token,
		ExpiresAt: p.Session.ExpiresAt.UTC().Format(time.RFC3339),
		ExpiresIn: int64(ttl(p.Session, h.now()).Seconds()),
		User:      p.Session.User,
	})
}

// Logout handles POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	p := principal(c)
	if err := h.services.Sessions.Logout(c.Request.Context(), p); err != nil {
		h.respondError(c, "logout", err)
		return
	}
	c.Set(sessionEndedKey, true)
	ok(c, gin.H{"message": "logged out"})
}

// ChangePassword handles POST /api/auth/change-password
func (h *Handlers) ChangePassword(c *gin.Context) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.services.Sessions.ChangePassword(c.Request.Context(), principal(c), req.NewPassword); err != nil {
		h.respondError(c, "change password", err)
		return
	}
	ok(c, gin.H{"message": "password changed"})
}

// Me handles GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	p := principal(c)
	ok(c, SessionResponse{User: p.Session.User, ExpiresAt: p.Session.ExpiresAt.UTC().Format(time.RFC3339)})
}

// Lookups handles GET /api/lookups
func (h *Handlers) Lookups(c *gin.Context) {
	lookups, err := h.services.Lookups.All(c.Request.Context(), principal(c))
	if err != nil {
		h.respondError(c, "lookups", err)
		return
	}
	ok(c, lookups)
}

// UsersByRole handles GET /api/users?role=&department_id=
func (h *Handlers) UsersByRole(c *gin.Context) {
	var q struct {
		Role         string `form:"role"`
		DepartmentID int64  `form:"department_id"`
	}
	if !h.bindQuery(c, &q) {
		return
	}
	users, err := h.services.Lookups.UsersByRole(c.Request.Context(), principal(c), q.Role, q.DepartmentID)
	if err != nil {
		h.respondError(c, "users by role", err)
		return
	}
	ok(c, users)
}

// RecentActivity handles GET /api/activity
func (h *Handlers) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.services.Activity.Recent(c.Request.Context(), principal(c), limit)
	if err != nil {
		h.respondError(c, "recent activity", err)
		return
	}
	ok(c, events)
}

// ProposalActivity handles GET /api/proposals/:id/activity
func (h *Handlers) ProposalActivity(c *gin.Context) {
	id, valid := h.idParam(c, "id")
	if !valid {
		return
	}
	events, err := h.services.Activity.ForProposal(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "proposal activity", err)
		return
	}
	ok(c, events)
}

func (h *Handlers) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Info("Invalid request body", "path", c.FullPath(), "error", err)
		fail(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handlers) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.logger.Info("Invalid query parameters", "path", c.FullPath(), "error", err)
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return false
	}
	return true
}

func (h *Handlers) idParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Info("Invalid id", "param", name, "value", raw)
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
