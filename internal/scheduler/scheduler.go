package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"auction-service/internal/util"

	"go.uber.org/zap"
)

// Job is a named unit of work invoked on a fixed interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Locker is an optional cross-instance short-circuit, typically backed by
// redis SETNX. It only reduces redundant work across scheduler instances;
// the store's conditional updates remain the correctness mechanism.
type Locker interface {
	AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey string) error
}

type entry struct {
	job     Job
	running atomic.Bool
}

// Scheduler drives registered jobs on their intervals. Each job kind runs
// in its own goroutine; a tick that finds the previous run of the same job
// still in flight is skipped.
type Scheduler struct {
	entries []*entry
	locker  Locker
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// New creates a scheduler. locker may be nil when the process is the only
// scheduler instance.
func New(locker Locker) *Scheduler {
	return &Scheduler{
		locker: locker,
		logger: util.GetLogger(),
	}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.entries = append(s.entries, &entry{job: job})
}

// Start launches one ticker loop per registered job and returns. Loops
// stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, e := range s.entries {
		e := e
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.logger.Info("Job scheduled",
				zap.String("job", e.job.Name),
				zap.Duration("interval", e.job.Interval))

			ticker := time.NewTicker(e.job.Interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					s.logger.Info("Job loop stopped", zap.String("job", e.job.Name))
					return
				case <-ticker.C:
					s.runOnce(ctx, e)
				}
			}
		}()
	}
}

// Stop blocks until all job loops have exited and in-flight runs finished
func (s *Scheduler) Stop() {
	s.wg.Wait()
}

// runOnce executes a single tick of a job, guarded against overlap with the
// previous run of the same job. Run errors are logged, never propagated.
func (s *Scheduler) runOnce(ctx context.Context, e *entry) {
	if !e.running.CompareAndSwap(false, true) {
		util.SchedulerRunsSkippedTotal.WithLabelValues(e.job.Name, "overlap").Inc()
		s.logger.Debug("Previous run still in flight, skipping tick",
			zap.String("job", e.job.Name))
		return
	}
	defer e.running.Store(false)

	if s.locker != nil {
		acquired, err := s.locker.AcquireLock(ctx, "scheduler:"+e.job.Name, e.job.Interval)
		if err != nil {
			// fail open: the lock is an optimization, not a guarantee
			s.logger.Warn("Job lock unavailable, running anyway",
				zap.String("job", e.job.Name),
				zap.Error(err))
		} else if !acquired {
			util.SchedulerRunsSkippedTotal.WithLabelValues(e.job.Name, "locked").Inc()
			s.logger.Debug("Job locked by another instance, skipping tick",
				zap.String("job", e.job.Name))
			return
		} else {
			defer func() {
				if err := s.locker.ReleaseLock(ctx, "scheduler:"+e.job.Name); err != nil {
					s.logger.Warn("Failed to release job lock",
						zap.String("job", e.job.Name),
						zap.Error(err))
				}
			}()
		}
	}

	runCtx, span := util.StartSpan(ctx, "scheduler."+e.job.Name)
	defer span.End()

	start := time.Now()
	err := e.job.Run(runCtx)
	util.SchedulerRunDuration.WithLabelValues(e.job.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		util.SchedulerRunsTotal.WithLabelValues(e.job.Name, "error").Inc()
		s.logger.Error("Job run failed",
			zap.String("job", e.job.Name),
			zap.Error(err))
		return
	}
	util.SchedulerRunsTotal.WithLabelValues(e.job.Name, "ok").Inc()
}
