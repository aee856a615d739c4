package janitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSessions struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSessions) DeleteExpired() (int64, error) {
	f.calls.Add(1)
	return 2, f.err
}

type fakeLimiter struct {
	calls atomic.Int32
}

func (f *fakeLimiter) Cleanup() int {
	f.calls.Add(1)
	return 1
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepCallsEverything(t *testing.T) {
	s := &fakeSessions{}
	l1, l2 := &fakeLimiter{}, &fakeLimiter{}
	j := New(s, []LimiterPurger{l1, l2}, time.Hour, quietLogger())

	j.Sweep()

	if s.calls.Load() != 1 {
		t.Errorf("session purges = %d, want 1", s.calls.Load())
	}
	if l1.calls.Load() != 1 || l2.calls.Load() != 1 {
		t.Errorf("limiter cleanups = %d, %d, want 1, 1", l1.calls.Load(), l2.calls.Load())
	}
}

func TestSweepContinuesAfterSessionError(t *testing.T) {
	s := &fakeSessions{err: errors.New("database is locked")}
	l := &fakeLimiter{}
	j := New(s, []LimiterPurger{l}, time.Hour, quietLogger())

	j.Sweep()

	if l.calls.Load() != 1 {
		t.Error("limiter cleanup should still run")
	}
}

func TestStartStop(t *testing.T) {
	s := &fakeSessions{}
	j := New(s, nil, 5*time.Millisecond, quietLogger())

	j.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	j.Stop()

	calls := s.calls.Load()
	if calls < 2 {
		t.Errorf("sweeps = %d, want at least 2", calls)
	}

	time.Sleep(15 * time.Millisecond)
	if s.calls.Load() != calls {
		t.Error("janitor kept sweeping after Stop")
	}
}

func TestStopWithoutStart(t *testing.T) {
	j := New(&fakeSessions{}, nil, time.Hour, quietLogger())
	// Should not block or panic
	j.Stop()
}
