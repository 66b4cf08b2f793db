// Command server runs the proposal tracker BFF: an authenticated HTTP API
// in front of the proposal backend, plus its background workers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/config"
	"github.com/garyjia/proposal-tracker/internal/container"
	httpapi "github.com/garyjia/proposal-tracker/internal/interfaces/http"
	"github.com/garyjia/proposal-tracker/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("Server exited successfully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting proposal tracker",
		zap.String("version", httpapi.Version),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close container", zap.Error(err))
		}
	}()

	tokens, err := httpapi.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return err
	}

	checks := make(map[string]httpapi.HealthCheck)
	for name, check := range c.HealthChecks() {
		checks[name] = check
	}

	services := c.Services()
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	}, httpapi.Services{
		Sessions:  services.Sessions,
		Proposals: services.Proposals,
		Tracker:   services.Tracker,
		Evaluator: services.Evaluator,
		Lookups:   services.Lookups,
		Activity:  services.Activity,
	}, tokens, checks, container.NewLogger(logger))

	// blocks until a signal arrives or the listener fails
	return server.Start(ctx)
}
