package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Watcher  WatcherConfig  `mapstructure:"watcher"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// UpstreamConfig points at the proposal backend
type UpstreamConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}

// AuthConfig holds bearer token and session settings
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Issuer     string        `mapstructure:"issuer"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// RedisConfig holds cache server settings. An empty address disables
// caching.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// CacheConfig holds cache lifetimes
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	LookupTTL time.Duration `mapstructure:"lookup_ttl"`
}

// UploadConfig bounds proposal documents
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// WatcherConfig holds background worker settings
type WatcherConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Email         string        `mapstructure:"email"`
	Password      string        `mapstructure:"password"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file, a .env file in the
// working directory and the environment, in increasing precedence
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)

	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.upload_timeout", 5*time.Minute)

	v.SetDefault("auth.issuer", "rdtrack")
	v.SetDefault("auth.session_ttl", 24*time.Hour)

	v.SetDefault("database.path", "data/rdtrack.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.prefix", "rdtrack")

	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.lookup_ttl", 10*time.Minute)

	v.SetDefault("upload.max_bytes", 10<<20)

	v.SetDefault("watcher.enabled", false)
	v.SetDefault("watcher.poll_interval", 15*time.Minute)
	v.SetDefault("watcher.sweep_interval", time.Hour)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string]string{
		"upstream.base_url": "RD_API_BASE_URL",
		"auth.jwt_secret":   "RD_JWT_SECRET",
		"database.path":     "RD_DATABASE_PATH",
		"watcher.enabled":   "RD_WATCHER_ENABLED",
		"watcher.email":     "RD_WATCHER_EMAIL",
		"watcher.password":  "RD_WATCHER_PASSWORD",
		"redis.addr":        "REDIS_ADDR",
		"redis.password":    "REDIS_PASSWORD",
		"logger.level":      "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream.base_url must be an http(s) URL: %q", c.Upstream.BaseURL)
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}
	if c.Watcher.Enabled {
		if c.Watcher.Email == "" || c.Watcher.Password == "" {
			return fmt.Errorf("watcher.email and watcher.password are required when the watcher is enabled")
		}
		if c.Watcher.PollInterval <= 0 {
			return fmt.Errorf("watcher.poll_interval must be positive")
		}
	}
	return nil
}
