package analysis

import (
	"bowell-service/internal/app/config"
	"bowell-service/internal/app/contracts"
	"bowell-service/internal/pkg/constvars"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultReaperCronSpec = "@every 1m"
	reaperLeaderLockTTL   = time.Minute
)

// Reaper periodically fails examinations whose analysis never finished.
// Only the instance holding the leader lock sweeps on a given tick.
type Reaper struct {
	log       *zap.Logger
	spec      string
	locker    contracts.LockerService
	processor contracts.AnalysisProcessor
	cron      *cron.Cron
	runCtx    context.Context
	cancel    context.CancelFunc
	now       func() time.Time
}

func NewReaper(log *zap.Logger, cfg *config.InternalConfig, locker contracts.LockerService, processor contracts.AnalysisProcessor) *Reaper {
	spec := cfg.Analysis.ReaperCronSpec
	if spec == "" {
		spec = defaultReaperCronSpec
	}
	return &Reaper{log: log, spec: spec, locker: locker, processor: processor, now: time.Now}
}

func (r *Reaper) Start(ctx context.Context) {
	r.runCtx, r.cancel = context.WithCancel(ctx)
	c := cron.New()
	if _, err := c.AddFunc(r.spec, func() { r.runOnce(r.runCtx) }); err != nil {
		r.log.Warn("analysis.reaper invalid cron spec, falling back to default",
			zap.String("spec", r.spec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(defaultReaperCronSpec, func() { r.runOnce(r.runCtx) })
	}
	c.Start()
	r.cron = c
}

// Stop halts the schedule and waits for a running sweep.
func (r *Reaper) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *Reaper) runOnce(ctx context.Context) {
	acquired, token, err := r.locker.TryLock(ctx, constvars.ReaperLeaderLockKey, reaperLeaderLockTTL)
	if err != nil {
		r.log.Warn("analysis.reaper leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		r.log.Debug("analysis.reaper leader lock held by another instance")
		return
	}
	defer func() {
		// Stop cancels ctx, the lock must still be released
		if err := r.locker.Unlock(context.WithoutCancel(ctx), constvars.ReaperLeaderLockKey, token); err != nil {
			r.log.Warn("analysis.reaper leader unlock failed", zap.Error(err))
		}
	}()

	failed, err := r.processor.FailStale(ctx, r.now())
	if err != nil {
		r.log.Error("analysis.reaper sweep failed", zap.Int(constvars.LoggingCountKey, failed), zap.Error(err))
		return
	}
	r.log.Info("analysis.reaper sweep finished", zap.Int(constvars.LoggingCountKey, failed))
}
