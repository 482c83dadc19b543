package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/shop-api/internal/metrics"
	"github.com/robfig/cron/v3"
)

// TokenPurger is satisfied by repository.UserRepository.
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// Reaper deletes expired email confirmation tokens on a cron schedule.
type Reaper struct {
	repo   TokenPurger
	logger *slog.Logger
	now    func() time.Time
}

func NewReaper(repo TokenPurger, logger *slog.Logger) *Reaper {
	return &Reaper{
		repo:   repo,
		logger: logger.With("component", "reaper"),
		now:    time.Now,
	}
}

// Start runs Reap on every tick of spec (standard cron syntax or a
// descriptor such as "@every 1h") until ctx is cancelled. It returns an
// error only when spec cannot be parsed.
func (r *Reaper) Start(ctx context.Context, spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		if _, err := r.Reap(ctx); err != nil {
			r.logger.ErrorContext(ctx, "purge expired tokens", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	c.Start()
	r.logger.Info("reaper started", "schedule", spec)

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("reaper shut down")
	return nil
}

// Reap runs a single purge cycle and returns how many tokens were removed.
func (r *Reaper) Reap(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.ReaperCycleDuration.Observe(time.Since(start).Seconds())
	}()

	n, err := r.repo.PurgeExpiredTokens(ctx, r.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.TokensPurgedTotal.Add(float64(n))
		r.logger.InfoContext(ctx, "purged expired confirm tokens", "count", n)
	}
	return n, nil
}
