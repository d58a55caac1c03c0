package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

type HeartbeatConfig struct {
	MonitorURL string `json:"monitor_url" validate:"required,url"`
}

// Heartbeat pings a push monitor (e.g. an Uptime Kuma push URL) on every UP
// report. The monitor alarms on its own when the pings stop, which covers
// the case where this process itself dies.
type Heartbeat struct {
	monitorURL string
	client     *http.Client
}

func NewHeartbeat(rawConfig json.RawMessage) (domain.Notifier, error) {
	var cfg HeartbeatConfig
	if err := json.Unmarshal(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("invalid heartbeat config: %w", err)
	}
	if cfg.MonitorURL == "" {
		return nil, fmt.Errorf("heartbeat monitor_url is required")
	}

	return NewHeartbeatWithURL(cfg.MonitorURL), nil
}

func NewHeartbeatWithURL(monitorURL string) domain.Notifier {
	return &Heartbeat{
		monitorURL: monitorURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *Heartbeat) Type() string { return config.NotifierTypeHeartbeat }

func (h *Heartbeat) Notify(ctx context.Context, report domain.Report) error {
	if report.Outcome != domain.OutcomeUp {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.monitorURL, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("heartbeat push returned %d", resp.StatusCode)
	}
	return nil
}
