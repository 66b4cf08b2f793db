// Command rdtrack is a terminal client for the proposal backend. It keeps
// one login in the user's state directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/service"
	"github.com/garyjia/proposal-tracker/internal/config"
	"github.com/garyjia/proposal-tracker/internal/container"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/cache"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/storage"
	httpapi "github.com/garyjia/proposal-tracker/internal/interfaces/http"
	"github.com/garyjia/proposal-tracker/pkg/utils"
)

// activityDBName is the local activity log kept next to the session file
const activityDBName = "activity.db"

// app holds what every command needs. Services are built lazily by setup
// unless a test has injected them.
type app struct {
	configPath string
	stateDir   string
	verbose    bool

	out    io.Writer
	logger *zap.Logger

	store     *storage.SessionFileStore
	sessions  service.SessionService
	proposals service.ProposalService
	tracker   service.TrackerService

	closers []func() error
}

func main() {
	a := &app{out: os.Stdout}
	root := newRootCmd(a)
	err := root.Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "rdtrack",
		Short:   "Track R&D proposals and evaluator assignments",
		Version: httpapi.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a YAML configuration file")
	flags.StringVar(&a.stateDir, "state-dir", "", "directory holding the saved session (default: user config dir)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newAssignmentsCmd(a),
		newBudgetCmd(a),
	)
	return root
}

// setup loads configuration and builds the services
func (a *app) setup(ctx context.Context) error {
	if a.logger == nil {
		a.logger = utils.NewCLILogger(a.verbose)
	}
	if a.sessions != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.stateDir == "" {
		if a.stateDir, err = storage.DefaultStateDir(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(a.stateDir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	a.store = storage.NewSessionFileStore(a.stateDir, a.logger)

	dbBundle, err := container.ProvideDatabase(ctx, &container.DatabaseConfig{
		Path:         filepath.Join(a.stateDir, activityDBName),
		MaxOpenConns: 1,
	}, a.logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, dbBundle.DB.Close)

	repos, err := container.ProvideRepositories(dbBundle.DB.DB, a.logger)
	if err != nil {
		return err
	}
	repos.Sessions = storage.NewFileSessionRepository(a.store)

	cc := cfg.ToContainerConfig()
	factory, err := container.ProvideAPIFactory(&cc.Upstream, a.logger)
	if err != nil {
		return err
	}

	// one-shot commands gain nothing from caching
	services, err := container.ProvideServices(&container.ServiceDeps{
		Config:  cc,
		Repos:   repos,
		Cache:   cache.Noop{},
		Factory: factory,
		Logger:  a.logger,
	})
	if err != nil {
		return err
	}

	a.sessions = services.Sessions
	a.proposals = services.Proposals
	a.tracker = services.Tracker
	return nil
}

// principal resumes the saved session
func (a *app) principal(ctx context.Context) (*service.Principal, error) {
	saved, err := a.store.Load()
	if errors.Is(err, storage.ErrNoSession) {
		return nil, errors.New("not logged in; run `rdtrack login`")
	}
	if err != nil {
		return nil, err
	}

	p, err := a.sessions.Resume(ctx, saved.ID)
	if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrSessionNotFound) {
		return nil, errors.New("session expired; run `rdtrack login`")
	}
	return p, err
}

// persist saves cookies the backend rotated during a command
func (a *app) persist(ctx context.Context, p *service.Principal) {
	if err := a.sessions.Refresh(ctx, p); err != nil {
		a.logger.Warn("Failed to save refreshed session", zap.Error(err))
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("Cleanup failed", zap.Error(err))
		}
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
