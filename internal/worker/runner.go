package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tropicaldog17/engage/internal/logger"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Runner runs a job on a fixed interval in a background goroutine.
//
// With a Lease, a tick whose lease is held elsewhere is skipped, so any
// number of instances may run the same Runner.
type Runner struct {
	name     string
	interval time.Duration
	job      Job
	lease    Lease
	logger   *zap.Logger

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewRunner(name string, interval time.Duration, job Job, lease Lease, log *zap.Logger) *Runner {
	return &Runner{
		name:     name,
		interval: interval,
		job:      job,
		lease:    lease,
		logger:   logger.OrNop(log).With(zap.String("runner", name)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the loop. The first run happens immediately. Calls after the
// first, or after Stop, are no-ops.
func (r *Runner) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.logger.Info("Runner starting", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

// Stop signals the loop to exit and waits for the current run to finish.
// Stopping a runner that never started returns immediately.
func (r *Runner) Stop() {
	if r.started.CompareAndSwap(false, true) {
		close(r.doneCh)
	}
	r.stopOnce.Do(func() {
		r.logger.Info("Runner stopping")
		close(r.stopCh)
	})
	<-r.doneCh
	r.logger.Info("Runner stopped")
}

func (r *Runner) run(ctx context.Context) {
	defer close(r.doneCh)

	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-r.stopCh:
			return
		case <-ctx.Done():
			r.logger.Info("Runner context cancelled")
			return
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil && !errors.Is(err, ErrLeaseHeld) {
		r.logger.Error("Run failed (will retry next interval)", zap.Error(err))
	}
}

// RunOnce runs the job once under the lease. It returns ErrLeaseHeld when
// another holder is active.
func (r *Runner) RunOnce(ctx context.Context) error {
	if r.lease != nil {
		release, err := r.lease.Acquire(ctx, "engage:runner:"+r.name)
		if err != nil {
			if errors.Is(err, ErrLeaseHeld) {
				r.logger.Debug("Lease held elsewhere, skipping run")
			}
			return err
		}
		defer release()
	}

	started := time.Now()
	if err := r.job(ctx); err != nil {
		return err
	}
	r.logger.Debug("Run completed", zap.Duration("elapsed", time.Since(started)))
	return nil
}
