// Package metrics exposes chart activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts chart activity on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	Emissions *prometheus.CounterVec
	Resolves  *prometheus.CounterVec
	Hits      *prometheus.HistogramVec
	Appends   prometheus.Counter
	Appended  prometheus.Counter
	Evicted   prometheus.Counter
}

var _ contract.ChartRecorder = &Recorder{} // Compile-time check

// NewRecorder creates a recorder with every linechart metric registered, plus Go runtime collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		Emissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linechart_emissions_total",
				Help: "Host notifications by event kind and whether a callback received them",
			},
			[]string{"event", "delivered"},
		),

		Resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linechart_crosshair_resolves_total",
				Help: "Processed crosshair positions by source (pointer or shared)",
			},
			[]string{"source"},
		),

		Hits: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linechart_crosshair_hits",
				Help:    "Number of series hit per processed crosshair position",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
			[]string{"source"},
		),

		Appends: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linechart_append_calls_total",
			Help: "AppendData calls",
		}),

		Appended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linechart_datapoints_appended_total",
			Help: "Datapoints appended to visible series",
		}),

		Evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linechart_datapoints_evicted_total",
			Help: "Datapoints evicted from the head of bounded series",
		}),
	}

	r.registry.MustRegister(
		r.Emissions, r.Resolves, r.Hits, r.Appends, r.Appended, r.Evicted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordEmission implements contract.EmissionRecorder.
func (r *Recorder) RecordEmission(kind schema.EventKind, delivered bool) {
	r.Emissions.WithLabelValues(string(kind), strconv.FormatBool(delivered)).Inc()
}

// RecordResolve implements contract.ChartRecorder.
func (r *Recorder) RecordResolve(source string, hits int) {
	r.Resolves.WithLabelValues(source).Inc()
	r.Hits.WithLabelValues(source).Observe(float64(hits))
}

// RecordAppend implements contract.ChartRecorder.
func (r *Recorder) RecordAppend(appended, evicted int) {
	r.Appends.Inc()
	r.Appended.Add(float64(appended))
	r.Evicted.Add(float64(evicted))
}

// Registry returns the private registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
