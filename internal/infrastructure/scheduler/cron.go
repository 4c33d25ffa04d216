package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cron "github.com/robfig/cron"

	"github.com/spboyer/aspire-beast-social3/internal/ports"
)

// CronScheduler runs a single job on a robfig/cron schedule.
type CronScheduler struct {
	spec     string
	location *time.Location
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running sync.Mutex
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler configured via cron expression string
// (six fields with seconds, or a descriptor such as "@every 1h").
func NewCronScheduler(spec string, loc *time.Location, log *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc, logger: log}
}

// Start registers job and starts the cron goroutine. It stops by itself when ctx ends.
// A tick that fires while the previous run is still busy is skipped.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	cr := cron.NewWithLocation(c.location)
	err := cr.AddFunc(c.spec, func() {
		if !c.running.TryLock() {
			c.warn("previous run still in progress, skipping tick", "spec", c.spec)
			return
		}
		defer c.running.Unlock()

		job(time.Now().In(c.location))
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", c.spec, err)
	}

	cr.Start()
	c.cron = cr

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop halts the cron goroutine. Running jobs are not interrupted.
func (c *CronScheduler) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron == nil {
		return nil
	}
	c.cron.Stop()
	c.cron = nil
	return nil
}

func (c *CronScheduler) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
