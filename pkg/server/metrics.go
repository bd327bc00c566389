package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// renderMetrics holds the Prometheus metrics for the render pipeline.
// Request-level HTTP metrics live in pkg/middleware; these cover what the
// middleware cannot see: chunk counts by kind and terminal outcomes.
type renderMetrics struct {
	renders  *prometheus.CounterVec // outcome: ok, error, canceled
	duration prometheus.Histogram
	chunks   *prometheus.CounterVec // kind: Header, Body, Manifest, Footer
	bytes    prometheus.Counter
}

func newRenderMetrics(registry prometheus.Registerer) *renderMetrics {
	factory := promauto.With(registry)

	return &renderMetrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brook",
			Subsystem: "server",
			Name:      "renders_total",
			Help:      "Total number of page renders by terminal outcome",
		}, []string{"outcome"}),

		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brook",
			Subsystem: "server",
			Name:      "render_duration_seconds",
			Help:      "Time from page function call to stream completion",
			Buckets:   prometheus.DefBuckets,
		}),

		chunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brook",
			Subsystem: "server",
			Name:      "chunks_total",
			Help:      "Total chunks written to responses by kind",
		}, []string{"kind"}),

		bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "brook",
			Subsystem: "server",
			Name:      "render_bytes_total",
			Help:      "Total chunk payload bytes written to responses",
		}),
	}
}
