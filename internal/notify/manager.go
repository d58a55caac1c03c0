package notify

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

// Module exports the notify module
var Module = fx.Options(
	fx.Provide(NewManager),
	fx.Provide(func(m *Manager) map[domain.TargetName][]domain.Notifier {
		return m.Notifiers()
	}),
)

// Manager routes reports to the notifiers watching each target.
type Manager struct {
	notifiers map[domain.TargetName][]domain.Notifier
	logger    *zap.Logger
}

func NewManager(cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	manager := &Manager{
		notifiers: make(map[domain.TargetName][]domain.Notifier),
		logger:    logger,
	}

	for _, nc := range cfg.Notifiers {
		notifier, err := createNotifier(&nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create notifier %s: %w", nc.Type, err)
		}

		for _, watch := range nc.Watches {
			manager.notifiers[watch] = append(
				manager.notifiers[watch],
				notifier,
			)
		}
	}

	return manager, nil
}

func (m *Manager) Notifiers() map[domain.TargetName][]domain.Notifier {
	return m.notifiers
}

// Dispatch sends a report to every notifier watching its target. Failures
// are logged and never escalate: alerting is fire-and-forget.
func (m *Manager) Dispatch(ctx context.Context, report domain.Report) {
	for _, notifier := range m.notifiers[report.Target.Name] {
		if err := notifier.Notify(ctx, report); err != nil {
			m.logger.Error("failed to send notification",
				zap.String("channel", notifier.Type()),
				zap.String("target", string(report.Target.Name)),
				zap.String("outcome", string(report.Outcome)),
				zap.Error(err),
			)
		}
	}
}

func createNotifier(nc *config.NotifierConfig) (domain.Notifier, error) {
	switch nc.Type {
	case config.NotifierTypeTelegram:
		return NewTelegram(nc.Raw)
	case config.NotifierTypeHeartbeat:
		return NewHeartbeat(nc.Raw)
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", nc.Type)
	}
}
