package container

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/infrastructure/cache"
	"github.com/garyjia/proposal-tracker/pkg/database"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Database.Path = database.MemoryPath
	cfg.Upstream.BaseURL = "http://127.0.0.1:9"
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestNewContainer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.Upstream.BaseURL = "" }, errMsg: "upstream.base_url"},
		{name: "missing jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, errMsg: "auth.jwt_secret"},
		{name: "zero upload limit", mutate: func(c *Config) { c.Upload.MaxBytes = 0 }, errMsg: "upload.max_bytes"},
		{
			name:   "watcher without credentials",
			mutate: func(c *Config) { c.Watcher.Enabled = true },
			errMsg: "watcher credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			c, err := NewContainer(cfg, zap.NewNop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.False(t, c.Ready())
		})
	}

	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)
	_, err = NewContainer(testConfig(), nil)
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start")

	services := c.Services()
	require.NotNil(t, services)
	assert.NotNil(t, services.Sessions)
	assert.NotNil(t, services.Proposals)
	assert.NotNil(t, services.Tracker)
	assert.NotNil(t, services.Evaluator)
	assert.NotNil(t, services.Lookups)
	assert.NotNil(t, services.Activity)
	assert.IsType(t, &cache.RedisCache{}, c.Cache())
	assert.Equal(t, 1, c.Workers().Count(), "watcher is disabled")

	health := c.Health(ctx)
	assert.True(t, health.Overall)
	assert.Contains(t, health.Components, "database")
	assert.Contains(t, health.Components, "cache")
	assert.Contains(t, health.Components, "workers")

	// migrations ran, so the repositories work
	n, err := c.Repositories().Sessions.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
	assert.Error(t, c.Start(ctx))
}

func TestContainer_UnreachableRedisDisablesCaching(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = addr

	c, err := NewContainer(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	assert.Equal(t, cache.Noop{}, c.Cache())
	assert.NotContains(t, c.HealthChecks(), "cache")
}

func TestContainer_WatcherRegistered(t *testing.T) {
	cfg := testConfig()
	cfg.Watcher.Enabled = true
	cfg.Watcher.Email = "watcher@example.org"
	cfg.Watcher.Password = "secret"

	deps := &WorkerDeps{
		Config: &cfg.Watcher,
		Repos:  &RepositoryBundle{},
		Logger: zap.NewNop(),
	}
	manager, err := ProvideWorkers(deps)
	require.NoError(t, err)
	assert.Equal(t, 2, manager.Count())
	assert.False(t, manager.IsRunning())
}

func TestConvertToZapFields(t *testing.T) {
	fields := convertToZapFields("id", 7, 42, "skipped", "error", assert.AnError, "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "id", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
}
