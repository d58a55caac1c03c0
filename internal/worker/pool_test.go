package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
	"github.com/uybinhphan/goatcounter-bot/internal/domain"
	"github.com/uybinhphan/goatcounter-bot/internal/monitor"
)

type fakeProber struct {
	mu      sync.Mutex
	results map[domain.TargetName]domain.ProbeResult
	probes  int
}

func (f *fakeProber) Probe(_ context.Context, target domain.Target) domain.ProbeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.results[target.Name]
}

type fakeMetrics struct {
	mu         sync.Mutex
	probes     []domain.Report
	dispatched []domain.TargetName
}

func (f *fakeMetrics) RecordProbe(r domain.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, r)
}

func (f *fakeMetrics) RecordJobDispatched(t domain.TargetName) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, t)
}

func (f *fakeMetrics) RecordNotification(string, bool) {}
func (f *fakeMetrics) RecordWorkerStart(string) {}
func (f *fakeMetrics) RecordWorkerStop(string) {}
func (f *fakeMetrics) RecordBotCommand(string) {}

type recordingNotifier struct {
	mu      sync.Mutex
	reports []domain.Report
	err     error
}

func (r *recordingNotifier) Type() string { return "recording" }

func (r *recordingNotifier) Notify(_ context.Context, report domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

func (r *recordingNotifier) byOutcome() map[domain.Outcome]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.Outcome]int)
	for _, report := range r.reports {
		counts[report.Outcome]++
	}
	return counts
}

func newTestPool(
	t *testing.T,
	targets []domain.Target,
	results map[domain.TargetName]domain.ProbeResult,
	notifiers map[domain.TargetName][]domain.Notifier,
	metrics *fakeMetrics,
) *Pool {
	t.Helper()

	cfg := &config.Config{
		Targets: targets,
		Probe:   config.Probe{TimeoutSeconds: 5, LatencyThresholdMS: 10000},
		Workers: config.Workers{Count: 2},
	}
	logger := zap.NewNop()
	runner := monitor.NewRunner(cfg, &fakeProber{results: results}, logger)
	dispatcher := NewDispatcher(targets, metrics, logger)

	pool, err := NewPool(cfg, runner, notifiers, dispatcher, metrics, logger)
	require.NoError(t, err)
	return pool
}

func TestPoolRunPass(t *testing.T) {
	targets := []domain.Target{
		{Name: "healthy", URL: "https://a.example.com"},
		{Name: "broken", URL: "https://b.example.com"},
		{Name: "sluggish", URL: "https://c.example.com"},
	}
	results := map[domain.TargetName]domain.ProbeResult{
		"healthy":  {StatusCode: 200, LatencyMS: 50},
		"broken":   {StatusCode: 503, LatencyMS: 200},
		"sluggish": {StatusCode: 200, LatencyMS: 15000},
	}

	notifier := &recordingNotifier{}
	notifiers := map[domain.TargetName][]domain.Notifier{
		"healthy":  {notifier},
		"broken":   {notifier},
		"sluggish": {notifier},
	}
	metrics := &fakeMetrics{}
	pool := newTestPool(t, targets, results, notifiers, metrics)

	require.NoError(t, pool.RunPass(context.Background()))

	assert.Len(t, metrics.dispatched, 3)
	assert.Len(t, metrics.probes, 3)

	counts := notifier.byOutcome()
	assert.Equal(t, 1, counts[domain.OutcomeUp])
	assert.Equal(t, 1, counts[domain.OutcomeDown])
	assert.Equal(t, 1, counts[domain.OutcomeSlow])
}

func TestPoolRunPassOnlyOnce(t *testing.T) {
	targets := []domain.Target{{Name: "prod", URL: "https://example.com"}}
	results := map[domain.TargetName]domain.ProbeResult{
		"prod": {StatusCode: 200, LatencyMS: 10},
	}
	pool := newTestPool(t, targets, results, nil, &fakeMetrics{})

	require.NoError(t, pool.RunPass(context.Background()))
	assert.Error(t, pool.RunPass(context.Background()))
}

func TestPoolNotifierFailureDoesNotAbortPass(t *testing.T) {
	targets := []domain.Target{
		{Name: "a", URL: "https://a.example.com"},
		{Name: "b", URL: "https://b.example.com"},
	}
	results := map[domain.TargetName]domain.ProbeResult{
		"a": {StatusCode: 500},
		"b": {StatusCode: 500},
	}

	failing := &recordingNotifier{err: errors.New("telegram unreachable")}
	notifiers := map[domain.TargetName][]domain.Notifier{
		"a": {failing},
		"b": {failing},
	}
	metrics := &fakeMetrics{}
	pool := newTestPool(t, targets, results, notifiers, metrics)

	require.NoError(t, pool.RunPass(context.Background()))
	assert.Len(t, failing.reports, 2)
	assert.Len(t, metrics.probes, 2)
}
