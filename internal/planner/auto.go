package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dukerupert/choreweek/internal/schedule"
)

// AutoScheduler generates next week's schedule on a cron spec.
type AutoScheduler struct {
	mu     sync.Mutex
	svc    *Service
	c      *cron.Cron
	spec   string
	maxPer int
	first  time.Weekday
	loc    *time.Location
	logger *slog.Logger
}

// NewAutoScheduler registers the weekly job. A maxPer of zero uses the
// smallest cap that fits the catalog at run time.
func NewAutoScheduler(svc *Service, parser cron.Parser, spec string, maxPer int, first time.Weekday, loc *time.Location, logger *slog.Logger) (*AutoScheduler, error) {
	a := &AutoScheduler{
		svc:    svc,
		c:      cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		spec:   spec,
		maxPer: maxPer,
		first:  first,
		loc:    loc,
		logger: logger,
	}
	if _, err := a.c.AddFunc(spec, a.tick); err != nil {
		return nil, fmt.Errorf("add auto schedule %q: %w", spec, err)
	}
	return a, nil
}

func (a *AutoScheduler) Start() {
	a.c.Start()
	a.logger.Info("auto scheduler started", "spec", a.spec, "tz", a.loc.String())
}

// Stop waits for a running job to finish or ctx to expire.
func (a *AutoScheduler) Stop(ctx context.Context) {
	select {
	case <-a.c.Stop().Done():
	case <-ctx.Done():
	}
}

func (a *AutoScheduler) tick() {
	res, err := a.RunOnce(time.Now().In(a.loc))
	var capErr *schedule.CapacityError
	switch {
	case errors.As(err, &capErr):
		a.logger.Warn("auto schedule over capacity",
			"required", capErr.Required, "capacity", capErr.Capacity, "unplaced", capErr.Unplaced)
	case err != nil:
		a.logger.Error("auto schedule failed", "error", err)
	case res == nil:
		a.logger.Debug("auto schedule skipped")
	}
}

// RunOnce schedules the week after the one containing now. It returns a
// nil Result without error when there is nothing to do.
func (a *AutoScheduler) RunOnce(now time.Time) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	target := WeekStart(now, a.first).AddDate(0, 0, 7)

	exists, err := a.svc.runs.OverlapsWeek(target)
	if err != nil {
		return nil, err
	}
	if exists {
		a.logger.Info("auto schedule: week already scheduled", "week_start", target.Format(time.DateOnly))
		return nil, nil
	}

	hint, err := a.svc.Hint()
	if err != nil {
		return nil, err
	}
	if hint.Members == 0 || hint.Tasks == 0 {
		a.logger.Info("auto schedule: nothing to schedule", "members", hint.Members, "tasks", hint.Tasks)
		return nil, nil
	}

	maxPer := a.maxPer
	if maxPer == 0 {
		maxPer = hint.MinPerMember
	}

	res, err := a.svc.Generate(target, maxPer, nil)
	if errors.Is(err, ErrAlreadyScheduled) {
		return nil, nil
	}
	return res, err
}
