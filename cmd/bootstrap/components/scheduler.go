package components

import (
	"context"
	"log/slog"
	"time"

	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/config"
	"library-circulation/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(StartSweepSchedule),
)

// StartSweepSchedule runs the expiry sweep every SWEEP_INTERVAL while the app is up.
// A zero interval leaves sweeping to whoever calls the sweep endpoint.
func StartSweepSchedule(lc fx.Lifecycle, cfg config.Config, sweeper commands.ExpirySweeper, clk clock.Clock, logger *slog.Logger) {
	interval := cfg.Circulation.SweepInterval
	if interval <= 0 {
		return
	}
	threshold := cfg.Circulation.ExpiryThreshold

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("Expiry sweep scheduled", "interval", interval.String(), "threshold", threshold.String())
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						runSweep(ctx, sweeper, clk, threshold, logger)
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func runSweep(ctx context.Context, sweeper commands.ExpirySweeper, clk clock.Clock, threshold time.Duration, logger *slog.Logger) {
	result, err := sweeper.Sweep(ctx, clk.Now(), threshold)
	if err != nil {
		logger.Error("Expiry sweep failed", "error", err.Error())
		return
	}
	if result.CancelledCount > 0 || len(result.FailedIDs) > 0 {
		logger.Info("Expiry sweep finished",
			"cancelled", result.CancelledCount,
			"failed", len(result.FailedIDs))
	}
}
