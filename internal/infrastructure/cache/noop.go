package cache

import (
	"context"
	"time"

	"github.com/garyjia/proposal-tracker/internal/application/port"
)

// Noop is used when no Redis is configured; every read misses
type Noop struct{}

func (Noop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }

func (Noop) Key(_ context.Context, namespace string, parts ...string) (string, error) {
	return joinKey([]string{namespace}, parts), nil
}

var _ port.Cache = Noop{}
