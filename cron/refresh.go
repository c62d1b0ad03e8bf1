package cron

import (
	"context"
	"fmt"
	"os"
	"time"

	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MidnightSpec fires at the start of every day in the scheduler's zone.
const MidnightSpec = "0 0 * * *"

// Refresher is what the scheduler keeps up to date.
type Refresher interface {
	FlushCache(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// StartRefreshScheduler refreshes r at local midnight in loc, so that
// "active today" and the screen roll over with the date. Stop the returned
// scheduler on shutdown.
func StartRefreshScheduler(ctx context.Context, loc *time.Location, r Refresher, logger *zap.Logger) (*robfig.Cron, error) {
	c := robfig.New(robfig.WithLocation(loc))
	_, err := c.AddFunc(MidnightSpec, func() { RunRefresh(ctx, r, logger) })
	if err != nil {
		return nil, fmt.Errorf("schedule midnight refresh: %w", err)
	}
	c.Start()
	logger.Info("Midnight refresh scheduled", zap.String("timezone", loc.String()))
	return c, nil
}

// RunRefresh drops cached reports and redraws.
func RunRefresh(ctx context.Context, r Refresher, logger *zap.Logger) {
	logger.Info("Running scheduled refresh")
	if err := r.FlushCache(ctx); err != nil {
		logger.Warn("Failed to flush report cache", zap.Error(err))
	}
	if err := r.Refresh(ctx); err != nil {
		logger.Error("Scheduled refresh failed", zap.Error(err))
	}
}

// RefreshOnSignal runs a refresh for every value received on signals until
// ctx is done. habitctl writes to the database behind the daemon's back, so
// the daemon listens for SIGHUP to pick those writes up.
func RefreshOnSignal(ctx context.Context, signals <-chan os.Signal, r Refresher, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			logger.Info("Refresh requested", zap.String("signal", sig.String()))
			RunRefresh(ctx, r, logger)
		}
	}
}
