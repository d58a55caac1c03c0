package worker

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/common"
	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

var Module = fx.Options(
	fx.Provide(NewPool),
	fx.Provide(func(cfg *config.Config, metrics domain.MetricsCollector, logger *zap.Logger) Dispatcher {
		return NewDispatcher(cfg.Targets, metrics, logger)
	}),
	fx.Invoke(registerHooks),
)

// registerHooks runs one monitoring pass in check mode and shuts the
// application down when it finishes. The process exits 0 whatever the probe
// outcomes: results travel through notifications, not the exit code.
func registerHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	pool *Pool,
	mode common.Mode,
	logger *zap.Logger,
) {
	if mode != common.ModeCheck {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := pool.RunPass(context.Background()); err != nil {
					logger.Error("monitoring pass failed", zap.Error(err))
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("failed to request shutdown", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			pool.Stop()
			return nil
		},
	})
}
