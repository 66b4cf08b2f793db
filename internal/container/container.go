package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/external/rdapi"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/worker"
	"github.com/garyjia/proposal-tracker/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and stop in reverse.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	db           *database.DB
	tx           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - Cache and upstream
	redis   *redis.Client
	cache   port.Cache
	factory *rdapi.Factory

	// Application
	services *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Sessions port.SessionRepository
	Activity port.ActivityRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Sessions  service.SessionService
	Proposals service.ProposalService
	Tracker   service.TrackerService
	Evaluator service.EvaluatorService
	Lookups   service.LookupService
	Activity  service.ActivityService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and starts the workers:
// 1. Database, migrations and repositories
// 2. Cache and the upstream client factory
// 3. Application services
// 4. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	var runCtx context.Context
	runCtx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(runCtx); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	if err := c.initExternal(runCtx); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("Cache and upstream client initialized")

	if err := c.initServices(); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(runCtx); err != nil {
		c.teardown()
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	errs := c.teardown()

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors: %w", len(errs), errs[0])
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// teardown releases whatever has been initialized. Callers hold c.mu.
func (c *Container) teardown() []error {
	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		} else {
			c.logger.Info("Workers stopped")
		}
		c.workers = nil
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Error("Failed to close redis client", zap.Error(err))
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		} else {
			c.logger.Info("Redis client closed")
		}
		c.redis = nil
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
		c.db = nil
	}
	return errs
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, err error) {
		if err != nil {
			status.Components[name] = ComponentHealth{Healthy: false, Message: err.Error()}
			status.Overall = false
			return
		}
		status.Components[name] = ComponentHealth{Healthy: true}
	}

	for name, check := range c.checks() {
		set(name, check(ctx))
	}

	if c.workers != nil {
		h := ComponentHealth{
			Healthy: c.workers.IsRunning(),
			Message: fmt.Sprintf("worker count: %d", c.workers.Count()),
		}
		status.Components["workers"] = h
		if !h.Healthy {
			status.Overall = false
		}
	} else {
		set("workers", fmt.Errorf("not initialized"))
	}
	return status
}

// HealthChecks returns the checks served by the health endpoint.
func (c *Container) HealthChecks() map[string]func(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checks()
}

func (c *Container) checks() map[string]func(ctx context.Context) error {
	db := c.db
	checks := map[string]func(ctx context.Context) error{
		"database": func(ctx context.Context) error {
			if db == nil {
				return fmt.Errorf("not initialized")
			}
			return db.PingContext(ctx)
		},
	}
	if client := c.redis; client != nil {
		checks["cache"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

// initDatabase opens the database and creates the repositories.
func (c *Container) initDatabase(ctx context.Context) error {
	dbBundle, err := ProvideDatabase(ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = dbBundle.DB
	c.tx = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.db.DB, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos
	return nil
}

// initExternal connects the cache and prepares the backend client factory.
func (c *Container) initExternal(ctx context.Context) error {
	cacheBundle, err := ProvideCache(ctx, &c.config.Redis, c.logger)
	if err != nil {
		return err
	}
	c.redis = cacheBundle.Client
	c.cache = cacheBundle.Cache

	factory, err := ProvideAPIFactory(&c.config.Upstream, c.logger)
	if err != nil {
		return err
	}
	c.factory = factory
	return nil
}

// initServices initializes all application services using providers.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Config:  c.config,
		Repos:   c.repositories,
		Cache:   c.cache,
		Factory: c.factory,
		Logger:  c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

// initWorkers initializes and starts all background workers.
func (c *Container) initWorkers(ctx context.Context) error {
	workers, err := ProvideWorkers(&WorkerDeps{
		Config:    &c.config.Watcher,
		Repos:     c.repositories,
		TxManager: c.tx,
		Factory:   c.factory,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	return nil
}

// Getters for accessing container components

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.tx
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Cache returns the listing cache.
func (c *Container) Cache() port.Cache {
	return c.cache
}

// APIFactory returns the backend client factory.
func (c *Container) APIFactory() port.APIFactory {
	return c.factory
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the key-value Logger interfaces of
// the service and http packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

// Logger is the key-value logger taken by the service and http packages.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewLogger wraps logger for packages that take key-value loggers.
func NewLogger(logger *zap.Logger) Logger {
	return &zapLoggerAdapter{logger: logger}
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
