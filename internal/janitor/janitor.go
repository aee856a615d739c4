// Package janitor runs periodic housekeeping: expired sessions and idle
// rate-limiter buckets.
package janitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type SessionPurger interface {
	DeleteExpired() (int64, error)
}

type LimiterPurger interface {
	Cleanup() int
}

// Janitor sweeps on a fixed interval until stopped.
type Janitor struct {
	mu       sync.RWMutex
	sessions SessionPurger
	limiters []LimiterPurger
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(sessions SessionPurger, limiters []LimiterPurger, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		sessions: sessions,
		limiters: limiters,
		interval: interval,
		logger:   logger,
	}
}

// Start sweeps once immediately, then on every interval.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	j.mu.Unlock()

	go func() {
		defer close(j.done)
		j.Sweep()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.Sweep()
			}
		}
	}()
}

func (j *Janitor) Stop() {
	j.mu.RLock()
	cancel := j.cancel
	done := j.done
	j.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (j *Janitor) Sweep() {
	n, err := j.sessions.DeleteExpired()
	if err != nil {
		j.logger.Error("delete expired sessions", "error", err)
	} else if n > 0 {
		j.logger.Info("deleted expired sessions", "count", n)
	}

	buckets := 0
	for _, l := range j.limiters {
		buckets += l.Cleanup()
	}
	if buckets > 0 {
		j.logger.Debug("dropped idle rate limit buckets", "count", buckets)
	}
}
