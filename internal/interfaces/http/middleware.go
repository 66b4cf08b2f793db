package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/application/service"
)

const (
	principalKey    = "principal"
	sessionEndedKey = "session_ended"
)

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// authMiddleware resolves the bearer token to a stored session. Cookies
// the backend rotated while serving the request are saved afterwards.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			fail(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			s.logger.Info("Rejected token", "path", c.Request.URL.Path, "error", err)
			fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		p, err := s.services.Sessions.Resume(c.Request.Context(), claims.SessionID)
		if err != nil {
			status, msg := statusFor(err)
			s.logger.Info("Session not resumed", "session_id", claims.SessionID, "error", err)
			fail(c, status, msg)
			return
		}
		c.Set(principalKey, p)

		c.Next()

		if c.GetBool(sessionEndedKey) {
			return
		}
		if err := s.services.Sessions.Refresh(c.Request.Context(), p); err != nil {
			s.logger.Error("Failed to store refreshed cookies", "session_id", p.Session.ID, "error", err)
		}
	}
}

// principal returns the session attached by authMiddleware
func principal(c *gin.Context) *service.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(*service.Principal)
	return p
}
