// File: /jobs/request_cleanup_job.go
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"socialnet-api/logger"
)

// DeclinedPurger deletes declined friend requests older than a cutoff.
type DeclinedPurger interface {
	PurgeDeclined(ctx context.Context, before time.Time) (int64, error)
}

// OrphanLikePurger deletes likes left behind by deleted posts.
type OrphanLikePurger interface {
	PurgeOrphans(ctx context.Context) (int64, error)
}

// RequestCleanupJob periodically purges declined friend requests that have
// outlived the retention window, and orphaned likes when configured.
type RequestCleanupJob struct {
	purger    DeclinedPurger
	likes     OrphanLikePurger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	done      chan struct{}
	stopped   chan struct{}
}

func NewRequestCleanupJob(purger DeclinedPurger, interval, retention time.Duration) *RequestCleanupJob {
	return &RequestCleanupJob{
		purger:    purger,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// WithOrphanLikes adds the orphan-like sweep to every pass.
func (j *RequestCleanupJob) WithOrphanLikes(likes OrphanLikePurger) *RequestCleanupJob {
	j.likes = likes
	return j
}

// Start runs one pass immediately and then one per interval.
func (j *RequestCleanupJob) Start() {
	logger.Info("request cleanup job started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	go func() {
		defer close(j.stopped)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.cleanup()
		for {
			select {
			case <-ticker.C:
				j.cleanup()
			case <-j.done:
				logger.Info("request cleanup job stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running pass to finish.
func (j *RequestCleanupJob) Stop() {
	close(j.done)
	<-j.stopped
}

func (j *RequestCleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.purger.PurgeDeclined(ctx, j.now().Add(-j.retention))
	if err != nil {
		logger.Error("request cleanup failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("purged declined friend requests", zap.Int64("count", n))
	}

	if j.likes == nil {
		return
	}
	n, err = j.likes.PurgeOrphans(ctx)
	if err != nil {
		logger.Error("orphan like cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("purged orphan likes", zap.Int64("count", n))
	}
}
