package worker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// loop runs tick every interval until stopped. It is the shared
// lifecycle of the polling workers.
type loop struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func (l *loop) start(ctx context.Context, runNow bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return fmt.Errorf("%s already running", l.name)
	}
	if l.interval <= 0 {
		return fmt.Errorf("%s: interval must be positive", l.name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running = true

	go l.run(runCtx, runNow)
	return nil
}

func (l *loop) run(ctx context.Context, runNow bool) {
	defer close(l.done)

	if runNow {
		l.tick(ctx)
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *loop) stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	cancel()
	<-done
}
