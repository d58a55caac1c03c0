package app

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/bot"
	"github.com/uybinhphan/goatcounter-bot/internal/common"
	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/keepalive"
	"github.com/uybinhphan/goatcounter-bot/internal/metrics"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
	"github.com/uybinhphan/goatcounter-bot/internal/notify"
	"github.com/uybinhphan/goatcounter-bot/internal/probe"
	"github.com/uybinhphan/goatcounter-bot/internal/stats"
	"github.com/uybinhphan/goatcounter-bot/internal/worker"
)

type Application struct {
	app    *fx.App
	logger *zap.Logger
}

func NewApplication(opts ...common.Option) *Application {
	options := &common.ServiceOptions{
		Mode: common.ModeCheck,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	app := &Application{
		logger: options.Logger,
	}

	app.app = fx.New(
		// Core modules
		config.Module,
		metrics.Module,
		probe.Module,
		monitor.Module,
		notify.Module,
		worker.Module,
		stats.Module,
		bot.Module,
		keepalive.Module,

		// Provide base dependencies
		fx.Provide(
			func() *zap.Logger { return options.Logger },
			func() common.Mode { return options.Mode },
		),

		// Configure fx
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		// Set timeouts
		fx.StartTimeout(30*time.Second),
		fx.StopTimeout(30*time.Second),

		// Register lifecycle hooks
		fx.Invoke(app.registerHooks),
	)

	return app
}

func (a *Application) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// Done delivers the OS signal, or the internal shutdown request once a check
// pass finishes.
func (a *Application) Done() <-chan os.Signal {
	return a.app.Done()
}

func (a *Application) registerHooks(lc fx.Lifecycle, mode common.Mode) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			a.logger.Info("starting application", zap.String("mode", string(mode)))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			a.logger.Info("stopping application")
			return nil
		},
	})
}
