// Package container wires the proposal tracker's dependencies and owns
// their lifecycle.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	Database DatabaseConfig
	Upstream UpstreamConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Upload   UploadConfig
	Watcher  WatcherConfig
	Server   ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to the SQLite file, or ":memory:"
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir overrides the embedded migrations when set
	MigrationsDir string
}

// UpstreamConfig locates the proposal backend.
type UpstreamConfig struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// AuthConfig holds bearer token and session settings.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	SessionTTL time.Duration
}

// RedisConfig holds cache server settings.
type RedisConfig struct {
	// Addr is empty when caching is disabled
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// CacheConfig holds cache lifetimes.
type CacheConfig struct {
	TTL       time.Duration
	LookupTTL time.Duration
}

// UploadConfig bounds proposal documents.
type UploadConfig struct {
	MaxBytes int64
}

// WatcherConfig holds background worker settings.
type WatcherConfig struct {
	Enabled       bool
	Email         string
	Password      string
	PollInterval  time.Duration
	SweepInterval time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults. Upstream.BaseURL
// and Auth.JWTSecret have no default.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/rdtrack.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Upstream: UpstreamConfig{
			Timeout:       30 * time.Second,
			UploadTimeout: 5 * time.Minute,
		},
		Auth: AuthConfig{
			Issuer:     "rdtrack",
			SessionTTL: 24 * time.Hour,
		},
		Redis: RedisConfig{
			Prefix: "rdtrack",
		},
		Cache: CacheConfig{
			TTL:       30 * time.Second,
			LookupTTL: 10 * time.Minute,
		},
		Upload: UploadConfig{
			MaxBytes: 10 << 20,
		},
		Watcher: WatcherConfig{
			PollInterval:  15 * time.Minute,
			SweepInterval: time.Hour,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}
	if c.Watcher.SweepInterval <= 0 {
		return fmt.Errorf("watcher.sweep_interval must be positive")
	}
	if c.Watcher.Enabled && (c.Watcher.Email == "" || c.Watcher.Password == "") {
		return fmt.Errorf("watcher credentials are required when the watcher is enabled")
	}
	return nil
}
