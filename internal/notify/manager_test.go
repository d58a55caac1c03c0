package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

type recordingNotifier struct {
	name    string
	reports []domain.Report
	err     error
}

func (r *recordingNotifier) Type() string { return r.name }

func (r *recordingNotifier) Notify(_ context.Context, report domain.Report) error {
	r.reports = append(r.reports, report)
	return r.err
}

func TestNewManagerRouting(t *testing.T) {
	t.Setenv("TG_BOT_TOKEN", "token")
	t.Setenv("TG_CHAT_ID", "42")

	cfg := &config.Config{
		Notifiers: []config.NotifierConfig{
			{
				Type:    config.NotifierTypeTelegram,
				Watches: []domain.TargetName{"prod", "staging"},
				Raw:     []byte(`{"type":"telegram"}`),
			},
			{
				Type:    config.NotifierTypeHeartbeat,
				Watches: []domain.TargetName{"prod"},
				Raw:     []byte(`{"type":"heartbeat","monitor_url":"https://kuma.example.com/api/push/x"}`),
			},
		},
	}

	manager, err := NewManager(cfg, zap.NewNop())
	require.NoError(t, err)

	notifiers := manager.Notifiers()
	assert.Len(t, notifiers["prod"], 2)
	assert.Len(t, notifiers["staging"], 1)
	assert.Empty(t, notifiers["other"])
}

func TestNewManagerInvalidNotifier(t *testing.T) {
	cfg := &config.Config{
		Notifiers: []config.NotifierConfig{
			{
				Type:    config.NotifierTypeHeartbeat,
				Watches: []domain.TargetName{"prod"},
				Raw:     []byte(`{"type":"heartbeat"}`),
			},
		},
	}

	_, err := NewManager(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestManagerDispatchBestEffort(t *testing.T) {
	failing := &recordingNotifier{name: "failing", err: errors.New("boom")}
	working := &recordingNotifier{name: "working"}

	manager := &Manager{
		notifiers: map[domain.TargetName][]domain.Notifier{
			"prod": {failing, working},
		},
		logger: zap.NewNop(),
	}

	report := domain.Report{
		Target:  domain.Target{Name: "prod", URL: "https://example.com"},
		Outcome: domain.OutcomeDown,
	}
	manager.Dispatch(context.Background(), report)

	// A failing channel never blocks the next one.
	assert.Len(t, failing.reports, 1)
	assert.Len(t, working.reports, 1)
}
