// Package metrics exposes Prometheus metrics for the blog generator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors and the registry they live in.
// A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PostsGenerated     *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
	SortFallbacks      prometheus.Counter
	GenerationDuration prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PostsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_posts_generated_total",
			Help: "Total posts generated and stored",
		}, []string{"tone", "length"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_store_errors_total",
			Help: "Total document store failures",
		}, []string{"operation"}),
		SortFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "blog_list_sort_fallbacks_total",
			Help: "Total post listings returned in store order because created_at could not be compared",
		}),
		GenerationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blog_generation_duration_seconds",
			Help:    "Time to synthesize and store a post",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordGeneration counts a stored post and observes how long it took.
func (m *Metrics) RecordGeneration(tone, length string, d time.Duration) {
	if m == nil {
		return
	}
	m.PostsGenerated.WithLabelValues(tone, length).Inc()
	m.GenerationDuration.Observe(d.Seconds())
}

// RecordStoreError counts a failed store operation.
func (m *Metrics) RecordStoreError(operation string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// RecordSortFallback counts a listing left in store order.
func (m *Metrics) RecordSortFallback() {
	if m == nil {
		return
	}
	m.SortFallbacks.Inc()
}
