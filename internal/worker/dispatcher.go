package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

// Dispatcher feeds one pass worth of probe jobs into the pool. It enqueues
// every target exactly once: periodicity belongs to whatever invokes the
// process (cron, CI, an operator), never to the process itself.
type Dispatcher interface {
	Dispatch(context.Context, chan<- domain.Target) error
}

type defaultDispatcher struct {
	targets     []domain.Target
	logger      *zap.Logger
	metrics     domain.MetricsCollector
	sendTimeout time.Duration
}

func NewDispatcher(
	targets []domain.Target,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) Dispatcher {
	return &defaultDispatcher{
		targets:     targets,
		logger:      logger.With(zap.String("component", "dispatcher")),
		metrics:     metrics,
		sendTimeout: 5 * time.Second,
	}
}

func (d *defaultDispatcher) Dispatch(ctx context.Context, jobs chan<- domain.Target) error {
	for _, target := range d.targets {
		select {
		case jobs <- target:
			d.logger.Debug("dispatched job",
				zap.String("target", string(target.Name)))
			d.metrics.RecordJobDispatched(target.Name)
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.sendTimeout):
			return fmt.Errorf("timed out dispatching job for target %s", target.Name)
		}
	}
	return nil
}
