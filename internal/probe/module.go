package probe

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

// Module exports the probe module
var Module = fx.Options(
	fx.Provide(New),
)

// Prober performs a single health check against a target.
type Prober interface {
	Probe(ctx context.Context, target domain.Target) domain.ProbeResult
}

// New creates a Prober from the probe section of the configuration.
func New(cfg *config.Config) Prober {
	return &httpProber{
		client: &http.Client{
			Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		},
		userAgent: cfg.Probe.UserAgent,
	}
}
