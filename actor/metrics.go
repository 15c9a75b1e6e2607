package actor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var lifetimeBuckets = []float64{.001, .01, .1, 1, 10, 60, 600, 3600}

// Metrics collects metrics about actor workers, labeled by actor type.
// A single Metrics can be shared by any number of actors.
type Metrics struct {
	workersActive  *prometheus.GaugeVec
	workersStarted *prometheus.CounterVec
	workerLifetime *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if the collectors are already registered, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		workersActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "actorgen_workers_active",
			Help: "Number of actor workers currently running",
		}, []string{"actor_type"}),

		workersStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actorgen_workers_started_total",
			Help: "Total number of actor workers started",
		}, []string{"actor_type"}),

		workerLifetime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actorgen_worker_lifetime_seconds",
			Help:    "Time between the start and the stop of actor workers, in seconds",
			Buckets: lifetimeBuckets,
		}, []string{"actor_type"}),
	}

	reg.MustRegister(
		m.workersActive,
		m.workersStarted,
		m.workerLifetime,
	)

	return m
}

func (m *Metrics) workerStarted(actorType string) {
	if m == nil {
		return
	}
	m.workersStarted.WithLabelValues(actorType).Inc()
	m.workersActive.WithLabelValues(actorType).Inc()
}

func (m *Metrics) workerStopped(actorType string, lifetime time.Duration) {
	if m == nil {
		return
	}
	m.workersActive.WithLabelValues(actorType).Dec()
	m.workerLifetime.WithLabelValues(actorType).Observe(lifetime.Seconds())
}
