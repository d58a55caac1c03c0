package worker

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
)

// Worker consumes probe jobs until its channel drains or the context ends.
type Worker interface {
	Start(context.Context)
	Stop()
}

type worker struct {
	id        int
	jobs      <-chan domain.Target
	runner    *monitor.Runner
	notifiers map[domain.TargetName][]domain.Notifier
	metrics   domain.MetricsCollector
	logger    *zap.Logger
	stopOnce  sync.Once
	stopChan  chan struct{}
}

func NewWorker(
	id int,
	jobs <-chan domain.Target,
	runner *monitor.Runner,
	notifiers map[domain.TargetName][]domain.Notifier,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) Worker {
	return &worker{
		id:        id,
		jobs:      jobs,
		runner:    runner,
		notifiers: notifiers,
		metrics:   metrics,
		logger:    logger.With(zap.Int("worker_id", id)),
		stopChan:  make(chan struct{}),
	}
}

func (w *worker) Start(ctx context.Context) {
	w.logger.Debug("worker started")
	w.metrics.RecordWorkerStart(strconv.Itoa(w.id))
	defer func() {
		w.metrics.RecordWorkerStop(strconv.Itoa(w.id))
		w.logger.Debug("worker stopped")
	}()

	for {
		select {
		case target, ok := <-w.jobs:
			if !ok {
				return
			}
			w.processTarget(ctx, target)
		case <-ctx.Done():
			w.logger.Debug("context cancelled", zap.Error(ctx.Err()))
			return
		case <-w.stopChan:
			w.logger.Debug("received stop signal")
			return
		}
	}
}

func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

func (w *worker) processTarget(ctx context.Context, target domain.Target) {
	report := w.runner.Check(ctx, target)
	w.metrics.RecordProbe(report)
	w.notify(ctx, report)
}

// notify is best-effort: a channel failure is logged, counted, and dropped.
func (w *worker) notify(ctx context.Context, report domain.Report) {
	for _, notifier := range w.notifiers[report.Target.Name] {
		err := notifier.Notify(ctx, report)
		w.metrics.RecordNotification(notifier.Type(), err == nil)
		if err != nil {
			w.logger.Error("failed to send notification",
				zap.String("channel", notifier.Type()),
				zap.String("target", string(report.Target.Name)),
				zap.Error(err))
		}
	}
}
