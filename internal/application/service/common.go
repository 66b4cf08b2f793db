package service

import (
	"context"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
	"github.com/garyjia/proposal-tracker/internal/domain/event"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Cache namespaces invalidated after mutations
const (
	NamespaceProposals = "proposals"
	NamespaceTracker   = "tracker"
	NamespaceLookups   = "lookups"
)

// Principal is a resumed session together with the backend client that
// carries its cookies. It lives for one request or CLI command.
type Principal struct {
	Session *entity.Session
	API     port.ProposalAPI
}

// UserID returns the id of the session user
func (p *Principal) UserID() string {
	return p.Session.User.ID
}

// HasRole reports whether the session user holds any of roles
func (p *Principal) HasRole(roles ...string) bool {
	return p.Session.User.HasRole(roles...)
}

// activityRecorder stores the activity event of a completed mutation and
// invalidates the listings it affected. The backend call has already
// succeeded at that point, so failures here are logged and not returned.
type activityRecorder struct {
	activity port.ActivityRepository
	cache    port.Cache
	logger   Logger
}

func (r *activityRecorder) record(ctx context.Context, evt *event.Event, namespaces ...string) {
	if err := r.activity.Create(ctx, evt); err != nil {
		r.logger.Error("Failed to record activity", "type", evt.Type, "proposal_id", evt.ProposalID, "error", err)
	}
	for _, ns := range namespaces {
		if err := r.cache.Invalidate(ctx, ns); err != nil {
			r.logger.Error("Failed to invalidate cache", "namespace", ns, "error", err)
		}
	}
}

// cached returns the value stored under namespace/parts, loading and
// storing it on a miss. Cache failures fall back to load.
func cached[T any](
	ctx context.Context,
	c port.Cache,
	ttl time.Duration,
	logger Logger,
	namespace string,
	parts []string,
	load func(ctx context.Context) (T, error),
) (T, error) {
	key, err := c.Key(ctx, namespace, parts...)
	if err != nil {
		logger.Error("Cache key unavailable", "namespace", namespace, "error", err)
		return load(ctx)
	}

	var value T
	found, err := c.Get(ctx, key, &value)
	if err != nil {
		logger.Error("Cache read failed", "key", key, "error", err)
	}
	if found {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Error("Cache write failed", "key", key, "error", err)
	}
	return value, nil
}
