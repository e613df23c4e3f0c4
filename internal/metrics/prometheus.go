// Package metrics exports allocation run metrics to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iliyamo/exam-seat-allocation/internal/allocation"
)

// Prometheus implements allocation.Recorder.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runs     *prometheus.CounterVec
	seats    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

var _ allocation.Recorder = (*Prometheus)(nil)

// NewPrometheus returns a recorder registering on reg, or on the default
// registerer when reg is nil. The namespace defaults to "seating".
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "seating"
	}
	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "runs_total",
			Help:      "Allocation runs by strategy and outcome (success, noop, busy, lease_error, config_error, failed).",
		}, []string{"strategy", "outcome"})
		p.seats = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "seats_assigned_total",
			Help:      "Seats persisted by allocation runs, including runs that later failed.",
		}, []string{"strategy"})
		p.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "run_duration_seconds",
			Help:      "Wall time of allocation runs that reached the store.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		}, []string{"strategy"})
		p.lastRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "allocation",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run per strategy.",
		}, []string{"strategy"})

		p.reg.MustRegister(p.runs)
		p.reg.MustRegister(p.seats)
		p.reg.MustRegister(p.duration)
		p.reg.MustRegister(p.lastRun)
	})
}

// RunFinished implements allocation.Recorder.
func (p *Prometheus) RunFinished(strategy allocation.Strategy, outcome string, seats int, elapsed time.Duration) {
	p.ensureRegistered()
	s := string(strategy)
	p.runs.WithLabelValues(s, outcome).Inc()
	if seats > 0 {
		p.seats.WithLabelValues(s).Add(float64(seats))
	}
	// Busy and lease_error runs never touched the store.
	if outcome != allocation.OutcomeBusy && outcome != allocation.OutcomeLease {
		p.duration.WithLabelValues(s).Observe(elapsed.Seconds())
	}
	if outcome == allocation.OutcomeSuccess {
		p.lastRun.WithLabelValues(s).SetToCurrentTime()
	}
}
