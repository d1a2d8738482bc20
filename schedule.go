package videoshelf

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic full resyncs, catching changes the watcher
// misses (network mounts, content pulled by another process).
type Scheduler struct {
	cron   *cron.Cron
	syncer *Syncer
	logger *zap.Logger
}

// NewScheduler registers a resync at spec, a standard cron expression or a
// descriptor such as "@every 1h".
func NewScheduler(ctx context.Context, spec string, syncer *Syncer, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		// overlapping runs are skipped; Syncer would serialize them anyway
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		syncer: syncer,
		logger: logger,
	}
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := syncer.Sync(ctx); err != nil {
			logger.Error("scheduled resync failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("videoshelf: sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("sync scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for a running sync to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
