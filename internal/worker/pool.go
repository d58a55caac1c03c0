package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
)

// Pool fans one monitoring pass out to a fixed set of workers. A pool runs
// exactly one pass: the jobs channel closes once the dispatcher is done and
// the pass ends when the workers drain it.
type Pool struct {
	workers    []Worker
	dispatcher Dispatcher
	jobs       chan domain.Target
	logger     *zap.Logger
	metrics    domain.MetricsCollector
	mu         sync.Mutex
	cancel     context.CancelFunc
	started    bool

	shutdownTimeout time.Duration
}

func NewPool(
	cfg *config.Config,
	runner *monitor.Runner,
	notifiers map[domain.TargetName][]domain.Notifier,
	dispatcher Dispatcher,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) (*Pool, error) {
	count := cfg.Workers.Count
	if count < 1 {
		count = 1
	}
	if count > len(cfg.Targets) {
		count = len(cfg.Targets)
	}

	jobs := make(chan domain.Target, len(cfg.Targets))
	workers := make([]Worker, count)
	for i := 0; i < count; i++ {
		workers[i] = NewWorker(i, jobs, runner, notifiers, metrics, logger)
	}

	return &Pool{
		workers:         workers,
		dispatcher:      dispatcher,
		jobs:            jobs,
		logger:          logger,
		metrics:         metrics,
		shutdownTimeout: 2 * time.Minute,
	}, nil
}

// RunPass probes every target once and returns when all reports have been
// processed. It can only be called once per pool.
func (p *Pool) RunPass(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return fmt.Errorf("pool pass already started")
	}
	p.started = true
	passCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	p.logger.Info("starting monitoring pass",
		zap.Int("worker_count", len(p.workers)),
		zap.Int("job_buffer_size", cap(p.jobs)))

	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			defer p.handleWorkerPanic()
			worker.Start(passCtx)
		}(w)
	}

	err := p.dispatcher.Dispatch(passCtx, p.jobs)
	close(p.jobs)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("monitoring pass finished")
	case <-time.After(p.shutdownTimeout):
		return fmt.Errorf("monitoring pass timed out after %s", p.shutdownTimeout)
	}

	return err
}

// Stop aborts a pass that is still running.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Pool) handleWorkerPanic() {
	if r := recover(); r != nil {
		p.logger.Error("worker panic recovered",
			zap.Any("panic", r),
			zap.Stack("stack"))
	}
}
