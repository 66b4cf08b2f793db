// Package http is the BFF adapter: it translates HTTP requests into
// application service calls on behalf of a stored backend session.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/proposal-tracker/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthCheck reports whether one component is usable
type HealthCheck func(ctx context.Context) error

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   5 * time.Minute,
		MaxUploadBytes: 12 << 20,
	}
}

// Services are the application services exposed over HTTP
type Services struct {
	Sessions  service.SessionService
	Proposals service.ProposalService
	Tracker   service.TrackerService
	Evaluator service.EvaluatorService
	Lookups   service.LookupService
	Activity  service.ActivityService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	tokens     *TokenIssuer
	checks     map[string]HealthCheck
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	services Services,
	tokens *TokenIssuer,
	checks map[string]HealthCheck,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultServerConfig().MaxUploadBytes
	}

	server := &Server{
		config:   config,
		router:   gin.New(),
		services: services,
		tokens:   tokens,
		checks:   checks,
		logger:   logger,
	}

	server.router.Use(gin.Recovery())
	server.router.Use(server.loggingMiddleware())
	server.setupRoutes()

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.tokens, s.checks, s.config.MaxUploadBytes, s.logger)

	s.router.GET("/health", h.HealthCheck)
	s.router.POST("/api/auth/login", h.Login)

	api := s.router.Group("/api", s.authMiddleware())
	{
		api.POST("/auth/logout", h.Logout)
		api.POST("/auth/change-password", h.ChangePassword)
		api.GET("/auth/me", h.Me)

		api.GET("/lookups", h.Lookups)
		api.GET("/users", h.UsersByRole)
		api.GET("/activity", h.RecentActivity)

		api.GET("/proposals", h.ListProposals)
		api.POST("/proposals", h.CreateProposal)
		api.GET("/proposals/:id", h.GetProposal)
		api.GET("/proposals/:id/budget", h.Budget)
		api.GET("/proposals/:id/budget.xlsx", h.BudgetWorkbook)
		api.GET("/proposals/:id/feedback", h.Feedback)
		api.GET("/proposals/:id/evaluations", h.Evaluations)
		api.GET("/proposals/:id/activity", h.ProposalActivity)
		api.POST("/proposals/:id/revisions", h.SubmitRevision)
		api.POST("/proposals/:id/forward-rnd", h.ForwardToRnD)
		api.POST("/proposals/:id/forward-evaluators", h.ForwardToEvaluators)
		api.POST("/proposals/:id/revision", h.RequestRevision)
		api.POST("/proposals/:id/reject", h.Reject)
		api.POST("/proposals/:id/endorse", h.Endorse)

		api.GET("/assignments", h.ListAssignments)
		api.GET("/assignments/stats", h.AssignmentStats)
		api.POST("/assignments/:id/extension", h.HandleExtension)
		api.DELETE("/assignments/:id/evaluators/:evaluatorId", h.RemoveEvaluator)

		api.POST("/evaluator/decisions", h.Decide)
		api.POST("/evaluator/evaluations", h.SubmitEvaluation)
	}
}

// Start starts the HTTP server and blocks until ctx is done
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
