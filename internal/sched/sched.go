// Package sched runs the background jobs: the simulation tick and the
// permanent-death sweep. Jobs never overlap themselves; an overrun is
// logged and the missed beat skipped.
package sched

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is one recurring unit of work with a time budget.
type Job struct {
	Name     string
	Interval time.Duration
	Budget   time.Duration
	Run      func(ctx context.Context)
}

// Scheduler drives jobs on their intervals until stopped.
type Scheduler struct {
	Logger *slog.Logger

	jobs []Job
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{Logger: logger, stop: make(chan struct{})}
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(j Job) {
	s.jobs = append(s.jobs, j)
}

// Start launches one goroutine per job.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	// One goroutine per job: a run that overshoots its interval delays the
	// next beat instead of overlapping it.
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			jobCtx, cancel := context.WithTimeout(ctx, j.Budget)
			start := time.Now()
			j.Run(jobCtx)
			elapsed := time.Since(start)
			cancel()

			if elapsed > j.Budget {
				s.Logger.Warn("job overran its budget",
					"job", j.Name, "elapsed", elapsed, "budget", j.Budget)
			} else {
				s.Logger.Debug("job finished", "job", j.Name, "elapsed", elapsed)
			}
		}
	}
}

// Stop halts all jobs and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}
