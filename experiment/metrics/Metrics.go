// Package metrics collects prometheus metrics of training runs and
// rollouts
package metrics

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	ts "github.com/samuelfneumann/netql/timestep"
)

// Outcomes of a run, used as the outcome label of RunsTotal
const (
	Converged    = "converged"
	NoRoute      = "no_route"
	Disconnected = "disconnected"
	Degenerate   = "degenerate"
	Failed       = "failed"
)

// Registry holds the metrics of an experiment. It also implements
// tracker.Tracker so that it can observe every training update. All
// methods are safe for concurrent use.
type Registry struct {
	UpdatesTotal  prometheus.Counter
	TdError       prometheus.Histogram
	TrainDuration prometheus.Histogram
	RunsTotal     *prometheus.CounterVec
	RouteLength   prometheus.Histogram
	RouteScore    prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry returns a Registry backed by a fresh prometheus registry
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	factory := promauto.With(r.registry)

	r.UpdatesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "netql_updates_total",
		Help: "Total number of value table updates",
	})
	r.TdError = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "netql_td_error_abs",
		Help:    "Magnitude of the temporal difference correction per update",
		Buckets: prometheus.ExponentialBuckets(0.01, 10, 7),
	})
	r.TrainDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "netql_train_duration_seconds",
		Help:    "Training duration in seconds",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
	})
	r.RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "netql_runs_total",
		Help: "Total number of runs by outcome",
	}, []string{"outcome"})
	r.RouteLength = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "netql_route_length",
		Help:    "Number of states on converged routes",
		Buckets: prometheus.LinearBuckets(1, 2, 10),
	})
	r.RouteScore = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "netql_route_score",
		Help:    "Cumulative reward of converged routes",
		Buckets: []float64{0, 250, 500, 900, 950, 980, 990, 999},
	})

	return r
}

// Track records a training update
func (r *Registry) Track(t ts.Transition) {
	r.UpdatesTotal.Inc()
	r.TdError.Observe(math.Abs(t.TdError))
}

// ObserveTraining records the duration of a training run
func (r *Registry) ObserveTraining(d time.Duration) {
	r.TrainDuration.Observe(d.Seconds())
}

// ObserveRoute records a converged route of length states and score
// score
func (r *Registry) ObserveRoute(length int, score float64) {
	r.RunsTotal.WithLabelValues(Converged).Inc()
	r.RouteLength.Observe(float64(length))
	r.RouteScore.Observe(score)
}

// ObserveFailure records a run that ended with the given outcome
func (r *Registry) ObserveFailure(outcome string) {
	r.RunsTotal.WithLabelValues(outcome).Inc()
}

// Registerer returns the underlying registry so that callers can add
// their own collectors
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// WriteText writes all metrics to w in the prometheus text exposition
// format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("writeText: could not gather metrics: %w", err)
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("writeText: %w", err)
		}
	}
	return nil
}
