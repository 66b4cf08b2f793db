package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/cache"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/document"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/export"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/external/rdapi"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/persistence/repository"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/worker"
	"github.com/garyjia/proposal-tracker/migrations"
	"github.com/garyjia/proposal-tracker/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// CacheBundle holds the listing cache and, when Redis is in use, its
// client.
type CacheBundle struct {
	Client *redis.Client
	Cache  port.Cache
}

// ServiceDeps is what ProvideServices needs.
type ServiceDeps struct {
	Config  *Config
	Repos   *RepositoryBundle
	Cache   port.Cache
	Factory *rdapi.Factory
	Logger  *zap.Logger
}

// WorkerDeps is what ProvideWorkers needs.
type WorkerDeps struct {
	Config    *WatcherConfig
	Repos     *RepositoryBundle
	TxManager port.TransactionManager
	Factory   port.APIFactory
	Logger    *zap.Logger
}

// ProvideDatabase opens the database and applies pending migrations, from
// MigrationsDir when set and from the embedded schema otherwise.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.Run(ctx, migrations.FS)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Sessions: repository.NewSessionRepository(sqlDB, logger),
		Activity: repository.NewActivityRepository(sqlDB, logger),
	}, nil
}

// ProvideCache connects to Redis. Without an address, or when the server
// does not answer, every read misses.
func ProvideCache(ctx context.Context, cfg *RedisConfig, logger *zap.Logger) (*CacheBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	if cfg.Addr == "" {
		logger.Info("Redis not configured, caching disabled")
		return &CacheBundle{Cache: cache.Noop{}}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := cache.NewRedisCache(client, cfg.Prefix, logger)
	if err := c.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, caching disabled", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = client.Close()
		return &CacheBundle{Cache: cache.Noop{}}, nil
	}

	logger.Info("Redis cache connected", zap.String("addr", cfg.Addr))
	return &CacheBundle{Client: client, Cache: c}, nil
}

// ProvideAPIFactory creates the factory of per-session backend clients.
func ProvideAPIFactory(cfg *UpstreamConfig, logger *zap.Logger) (*rdapi.Factory, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	factory := rdapi.NewFactory(rdapi.Config{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		UploadTimeout: cfg.UploadTimeout,
	}, logger)

	// fail fast on a malformed URL instead of on the first login
	if _, err := factory.New(nil); err != nil {
		return nil, err
	}
	return factory, nil
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Config == nil || deps.Repos == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Cache == nil || deps.Factory == nil || deps.Logger == nil {
		return nil, fmt.Errorf("cache, factory and logger are required")
	}

	cfg := deps.Config
	log := &zapLoggerAdapter{logger: deps.Logger}

	return &ServiceBundle{
		Sessions: service.NewSessionService(
			service.SessionConfig{TTL: cfg.Auth.SessionTTL, BaseURL: deps.Factory.BaseURL()},
			deps.Factory, deps.Repos.Sessions, deps.Repos.Activity, deps.Cache, log,
		),
		Proposals: service.NewProposalService(
			deps.Cache, cfg.Cache.TTL,
			document.NewInspector(cfg.Upload.MaxBytes, deps.Logger),
			export.NewBudgetWorkbook(deps.Logger),
			deps.Repos.Activity, log,
		),
		Tracker:   service.NewTrackerService(deps.Cache, cfg.Cache.TTL, deps.Repos.Activity, log),
		Evaluator: service.NewEvaluatorService(deps.Cache, deps.Repos.Activity, log),
		Lookups:   service.NewLookupService(deps.Cache, cfg.Cache.LookupTTL, log),
		Activity:  service.NewActivityService(deps.Repos.Activity, log),
	}, nil
}

// ProvideWorkers registers the background workers. They are started by the
// container.
func ProvideWorkers(deps *WorkerDeps) (*worker.Manager, error) {
	if deps == nil || deps.Config == nil || deps.Repos == nil || deps.Logger == nil {
		return nil, fmt.Errorf("worker dependencies are required")
	}

	manager := worker.NewManager(deps.Logger)
	manager.Register(worker.NewSessionSweeper(deps.Repos.Sessions, deps.Config.SweepInterval, deps.Logger))

	if deps.Config.Enabled {
		watcher := worker.NewOverdueWatcher(worker.OverdueWatcherConfig{
			Email:        deps.Config.Email,
			Password:     deps.Config.Password,
			PollInterval: deps.Config.PollInterval,
		}, deps.Factory, deps.Repos.Activity, deps.Logger)
		if deps.TxManager != nil {
			watcher = watcher.WithTransactions(deps.TxManager)
		}
		manager.Register(watcher)
	}
	return manager, nil
}
