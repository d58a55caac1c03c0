package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

// Module provides the metrics collector
var Module = fx.Options(
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(NewCollector),
	fx.Provide(func(c *Collector) domain.MetricsCollector { return c }),
)

type Collector struct {
	logger             *zap.Logger
	probesTotal        *prometheus.CounterVec
	probeDuration      *prometheus.HistogramVec
	lastProbeUp        *prometheus.GaugeVec
	jobsDispatched     *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	workerStarts       *prometheus.CounterVec
	workerStops        *prometheus.CounterVec
	activeWorkers      prometheus.Gauge
	botCommands        *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer, logger *zap.Logger) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		logger: logger,
		probesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_probes_total",
				Help: "Total number of health probes performed",
			},
			[]string{"target", "outcome"},
		),
		probeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sitemon_probe_duration_seconds",
				Help:    "Duration of health probes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		),
		lastProbeUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sitemon_probe_up",
				Help: "Latest probe outcome (1 for UP, 0 otherwise)",
			},
			[]string{"target"},
		),
		jobsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_jobs_dispatched_total",
				Help: "Total number of probe jobs dispatched to workers",
			},
			[]string{"target"},
		),
		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_notifications_total",
				Help: "Total number of notification attempts",
			},
			[]string{"channel", "result"},
		),
		workerStarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_worker_starts_total",
				Help: "Total number of worker starts",
			},
			[]string{"worker_id"},
		),
		workerStops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_worker_stops_total",
				Help: "Total number of worker stops",
			},
			[]string{"worker_id"},
		),
		activeWorkers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitemon_active_workers",
				Help: "Number of currently active workers",
			},
		),
		botCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitemon_bot_commands_total",
				Help: "Total number of bot commands handled",
			},
			[]string{"command"},
		),
	}
}

func (c *Collector) RecordProbe(report domain.Report) {
	target := string(report.Target.Name)
	c.probesTotal.WithLabelValues(target, string(report.Outcome)).Inc()
	c.probeDuration.WithLabelValues(target).Observe(float64(report.Result.LatencyMS) / 1000)

	up := 0.0
	if report.Outcome == domain.OutcomeUp {
		up = 1.0
	}
	c.lastProbeUp.WithLabelValues(target).Set(up)
}

func (c *Collector) RecordJobDispatched(target domain.TargetName) {
	c.jobsDispatched.WithLabelValues(string(target)).Inc()
}

func (c *Collector) RecordNotification(channel string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	c.notificationsTotal.WithLabelValues(channel, result).Inc()
}

func (c *Collector) RecordWorkerStart(workerID string) {
	c.workerStarts.WithLabelValues(workerID).Inc()
	c.activeWorkers.Inc()
}

func (c *Collector) RecordWorkerStop(workerID string) {
	c.workerStops.WithLabelValues(workerID).Inc()
	c.activeWorkers.Dec()
}

func (c *Collector) RecordBotCommand(command string) {
	c.botCommands.WithLabelValues(command).Inc()
}
