package bot

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/common"
	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
	"github.com/uybinhphan/goatcounter-bot/internal/stats"
	"github.com/uybinhphan/goatcounter-bot/internal/telegram"
)

var Module = fx.Options(
	fx.Provide(provideBot),
	fx.Invoke(registerHooks),
)

func provideBot(
	cfg *config.Config,
	mode common.Mode,
	runner *monitor.Runner,
	statsClient *stats.Client,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) (*Bot, error) {
	token := cfg.TelegramToken()
	if token == "" {
		if mode == common.ModeBot {
			return nil, fmt.Errorf("bot mode requires a telegram token (TG_BOT_TOKEN or a telegram notifier entry)")
		}
		return nil, nil
	}
	return New(telegram.NewClient(token), runner, statsClient, metrics, logger), nil
}

func registerHooks(lc fx.Lifecycle, b *Bot, mode common.Mode) {
	if mode != common.ModeBot {
		return
	}

	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runCtx, c := context.WithCancel(context.Background())
			cancel = c
			go func() {
				defer close(done)
				b.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
