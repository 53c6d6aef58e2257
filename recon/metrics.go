package recon

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors updated by Run.
type Metrics struct {
	// Patches counts patches per outcome.
	Patches *prometheus.CounterVec
	// SolveSeconds observes the wall time of each attempted patch.
	SolveSeconds prometheus.Histogram
	// Equations observes the system size of each solved patch.
	Equations prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// Registering twice on one registry fails with the registry's error.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Patches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lvdepth_patches_total",
				Help: "Total number of patches processed, by outcome",
			},
			[]string{"outcome"},
		),
		SolveSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lvdepth_solve_seconds",
			Help:    "Wall time spent on one patch",
			Buckets: prometheus.DefBuckets,
		}),
		Equations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lvdepth_equations",
			Help:    "Equations assembled for one solved patch",
			Buckets: prometheus.ExponentialBuckets(4, 2, 12),
		}),
	}
	for _, c := range []prometheus.Collector{m.Patches, m.SolveSeconds, m.Equations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("NewMetrics: %w", err)
		}
	}

	return m, nil
}

// observe records r. A nil receiver does nothing.
func (m *Metrics) observe(r *PatchResult) {
	if m == nil {
		return
	}
	m.Patches.WithLabelValues(string(r.Outcome)).Inc()
	switch r.Outcome {
	case OutcomeSolved:
		m.SolveSeconds.Observe(r.Duration.Seconds())
		m.Equations.Observe(float64(r.Report.Equations))
	case OutcomeFailed:
		m.SolveSeconds.Observe(r.Duration.Seconds())
	}
}
