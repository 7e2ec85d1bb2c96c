// Package metrics exports simulation counters to Prometheus.
//
package metrics

import (
	ls "github.com/db47h/logicsim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is a circuit Observer that records ticks, events and settle
// results.
//
type Recorder struct {
	registry *prometheus.Registry

	Ticks            prometheus.Counter
	Events           *prometheus.CounterVec
	SettleUnstable   prometheus.Counter
	SettleIterations prometheus.Histogram
}

// NewRecorder creates a Recorder with its metrics registered in reg. If reg is
// nil, a new registry is created.
//
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{registry: reg}
	f := promauto.With(reg)

	r.Ticks = f.NewCounter(prometheus.CounterOpts{
		Name: "logicsim_ticks_total",
		Help: "Total number of clock ticks",
	})
	r.Events = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logicsim_events_total",
			Help: "Total number of circuit events by type",
		},
		[]string{"type"},
	)
	r.SettleUnstable = f.NewCounter(prometheus.CounterOpts{
		Name: "logicsim_settle_unstable_total",
		Help: "Total number of settles that hit the iteration cap",
	})
	r.SettleIterations = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "logicsim_settle_iterations",
		Help:    "Number of passes per settle",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
	})
	return r
}

// Registry returns the Prometheus registry holding the recorder's metrics.
//
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Notify implements logicsim.Observer.
//
func (r *Recorder) Notify(_ *ls.Circuit, e ls.Event) {
	r.Events.WithLabelValues(e.Type.String()).Inc()
	switch e.Type {
	case ls.EventTick:
		r.Ticks.Inc()
	case ls.EventSettled:
		r.SettleIterations.Observe(float64(e.Result.Iterations))
		if e.Result.Status == ls.Unstable {
			r.SettleUnstable.Inc()
		}
	}
}
