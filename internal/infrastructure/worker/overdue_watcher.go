package worker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
	"github.com/garyjia/proposal-tracker/internal/domain/status"
	"github.com/garyjia/proposal-tracker/internal/infrastructure/external/rdapi"
)

// WatcherActor is the actor id recorded on events raised by the watcher
const WatcherActor = "system:overdue-watcher"

// OverdueWatcherConfig configures the service account and poll interval
type OverdueWatcherConfig struct {
	Email        string
	Password     string
	PollInterval time.Duration
}

// OverdueWatcher polls the assignment tracker with a service account and
// records one assignment.overdue event per group each time it goes
// overdue
type OverdueWatcher struct {
	config   OverdueWatcherConfig
	factory  port.APIFactory
	activity port.ActivityRepository
	tx       port.TransactionManager
	now      func() time.Time
	logger   *zap.Logger

	loop *loop

	mu     sync.Mutex
	client port.ProposalAPI
}

// NewOverdueWatcher creates the watcher
func NewOverdueWatcher(
	config OverdueWatcherConfig,
	factory port.APIFactory,
	activity port.ActivityRepository,
	logger *zap.Logger,
) *OverdueWatcher {
	w := &OverdueWatcher{
		config:   config,
		factory:  factory,
		activity: activity,
		now:      time.Now,
		logger:   logger,
	}
	w.loop = &loop{name: w.Name(), interval: config.PollInterval, tick: w.tick}
	return w
}

// WithTransactions makes the duplicate check and the insert of each
// event run in one transaction
func (w *OverdueWatcher) WithTransactions(tx port.TransactionManager) *OverdueWatcher {
	w.tx = tx
	return w
}

// Name implements Worker
func (w *OverdueWatcher) Name() string {
	return "OverdueWatcher"
}

// Start implements Worker; the first scan runs immediately
func (w *OverdueWatcher) Start(ctx context.Context) error {
	w.logger.Info("OverdueWatcher starting", zap.Duration("poll_interval", w.config.PollInterval))
	return w.loop.start(ctx, true)
}

// Stop implements Worker
func (w *OverdueWatcher) Stop() error {
	w.loop.stop()
	return nil
}

func (w *OverdueWatcher) tick(ctx context.Context) {
	recorded, err := w.Scan(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("Overdue scan failed", zap.Error(err))
		}
		return
	}
	if recorded > 0 {
		w.logger.Info("Overdue assignments recorded", zap.Int("count", recorded))
	}
}

// Scan fetches the tracker once and records the groups that became
// overdue. It returns how many events were recorded.
func (w *OverdueWatcher) Scan(ctx context.Context) (int, error) {
	records, err := w.fetch(ctx)
	if err != nil {
		return 0, err
	}

	now := w.now()
	recorded := 0
	for _, g := range assignment.GroupRecords(records, now) {
		if g.Status != status.AssignmentOverdue {
			continue
		}

		created, err := w.record(ctx, g)
		if err != nil {
			return recorded, err
		}
		if created {
			recorded++
		}
	}
	return recorded, nil
}

// record stores the overdue event of g unless this overdue episode was
// already recorded. A new deadline starts a new episode.
func (w *OverdueWatcher) record(ctx context.Context, g assignment.Group) (bool, error) {
	created := false
	run := func(ctx context.Context) error {
		exists, err := w.activity.Exists(ctx, event.TypeAssignmentOverdue, g.ProposalID, g.EarliestDue)
		if err != nil || exists {
			return err
		}
		evt := event.NewEvent(event.TypeAssignmentOverdue, WatcherActor, g.ProposalID, map[string]interface{}{
			"proposal_title": g.ProposalTitle,
			"earliest_due":   g.EarliestDue.Format(time.RFC3339),
			"evaluators":     g.EvaluatorNames(),
		})
		if err := w.activity.Create(ctx, evt); err != nil {
			return err
		}
		created = true
		return nil
	}

	if w.tx == nil {
		return created, run(ctx)
	}
	return created, w.tx.WithTransaction(ctx, run)
}

// fetch reads the whole tracker, logging in again once if the service
// account session has expired
func (w *OverdueWatcher) fetch(ctx context.Context) ([]entity.AssignmentRecord, error) {
	client, err := w.session(ctx, false)
	if err != nil {
		return nil, err
	}

	records, err := client.AssignmentTracker(ctx, 0)
	if rdapi.IsStatus(err, http.StatusUnauthorized) {
		if client, err = w.session(ctx, true); err != nil {
			return nil, err
		}
		records, err = client.AssignmentTracker(ctx, 0)
	}
	return records, err
}

func (w *OverdueWatcher) session(ctx context.Context, renew bool) (port.ProposalAPI, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.client != nil && !renew {
		return w.client, nil
	}
	if w.config.Email == "" {
		return nil, errors.New("overdue watcher has no service account")
	}

	client, err := w.factory.New(nil)
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx, w.config.Email, w.config.Password); err != nil {
		w.client = nil
		return nil, err
	}
	w.client = client
	w.logger.Info("OverdueWatcher logged in", zap.String("email", w.config.Email))
	return client, nil
}
