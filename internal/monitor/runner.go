package monitor

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/probe"
)

// Module exports the monitor module
var Module = fx.Options(
	fx.Provide(NewRunner),
)

// Runner turns a probe into a classified report. It is shared by the worker
// pool (check mode) and the bot's on-demand /check command.
type Runner struct {
	prober      probe.Prober
	targets     []domain.Target
	thresholdMS int64
	timeout     time.Duration
	logger      *zap.Logger
}

func NewRunner(cfg *config.Config, prober probe.Prober, logger *zap.Logger) *Runner {
	return &Runner{
		prober:      prober,
		targets:     cfg.Targets,
		thresholdMS: cfg.Probe.LatencyThresholdMS,
		timeout:     time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		logger:      logger.With(zap.String("component", "monitor")),
	}
}

// Check probes one target and classifies the result.
func (r *Runner) Check(ctx context.Context, target domain.Target) domain.Report {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.prober.Probe(cctx, target)
	outcome := domain.Classify(res, r.thresholdMS)

	fields := []zap.Field{
		zap.String("target", string(target.Name)),
		zap.String("url", target.Endpoint()),
		zap.String("outcome", string(outcome)),
		zap.Int("status", res.StatusCode),
		zap.Int64("latency_ms", res.LatencyMS),
	}
	if res.Err != nil {
		fields = append(fields, zap.Error(res.Err))
	}
	if outcome == domain.OutcomeUp {
		r.logger.Debug("target checked", fields...)
	} else {
		r.logger.Warn("target unhealthy", fields...)
	}

	return domain.Report{
		Target:    target,
		Result:    res,
		Outcome:   outcome,
		CheckedAt: time.Now().UTC(),
	}
}

// CheckAll probes every configured target sequentially. Used for on-demand
// checks where pool fan-out is not worth the setup.
func (r *Runner) CheckAll(ctx context.Context) []domain.Report {
	reports := make([]domain.Report, 0, len(r.targets))
	for _, target := range r.targets {
		if ctx.Err() != nil {
			break
		}
		reports = append(reports, r.Check(ctx, target))
	}
	return reports
}
