// Package jobs runs the background work of the tender API: deadline
// reminders and financial instrument expiry alerts, both on cron
// schedules.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron with named job registration. A job that
// is still running when its next tick fires is skipped, and panics are
// recovered so one bad run cannot kill the scheduler.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(
				cron.SkipIfStillRunning(cron.DefaultLogger),
				cron.Recover(cron.DefaultLogger),
			),
		),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// AddJob registers a named job on a cron expression. Standard 5-field
// expressions, 6-field with seconds, and descriptors like "@hourly" or
// "@every 30m" are all accepted. Names must be unique.
func (s *Scheduler) AddJob(name string, cronExpr string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	id, err := s.cron.AddFunc(cronExpr, func() {
		start := time.Now()
		s.logger.Info("job started", zap.String("job", name))
		job()
		s.logger.Info("job finished",
			zap.String("job", name),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}

	s.entries[name] = id
	s.logger.Info("job scheduled",
		zap.String("job", name),
		zap.String("schedule", cronExpr),
	)
	return nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that closes when any
// in-flight job completes.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}
