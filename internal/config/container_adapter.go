package config

import (
	"github.com/garyjia/proposal-tracker/internal/container"
)

// ToContainerConfig converts the file-based Config into the container's
// configuration.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Upstream: container.UpstreamConfig{
			BaseURL:       c.Upstream.BaseURL,
			Timeout:       c.Upstream.Timeout,
			UploadTimeout: c.Upstream.UploadTimeout,
		},
		Auth: container.AuthConfig{
			JWTSecret:  c.Auth.JWTSecret,
			Issuer:     c.Auth.Issuer,
			SessionTTL: c.Auth.SessionTTL,
		},
		Redis: container.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		},
		Cache: container.CacheConfig{
			TTL:       c.Cache.TTL,
			LookupTTL: c.Cache.LookupTTL,
		},
		Upload: container.UploadConfig{
			MaxBytes: c.Upload.MaxBytes,
		},
		Watcher: container.WatcherConfig{
			Enabled:       c.Watcher.Enabled,
			Email:         c.Watcher.Email,
			Password:      c.Watcher.Password,
			PollInterval:  c.Watcher.PollInterval,
			SweepInterval: c.Watcher.SweepInterval,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
