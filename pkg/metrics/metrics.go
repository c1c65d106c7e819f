package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics process-wide collectors, constructed once at startup and injected
// into the services that record into them.
type Metrics struct {
	registry *prometheus.Registry

	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	engineDuration  *prometheus.HistogramVec
	providerRetries prometheus.Counter
	graphNodes      prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routewise",
			Name:      "cache_hits_total",
			Help:      "Cache hits per store.",
		}, []string{"store"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "routewise",
			Name:      "cache_misses_total",
			Help:      "Cache misses (including expirations) per store.",
		}, []string{"store"}),
		engineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "routewise",
			Name:      "engine_duration_seconds",
			Help:      "Search engine execution time per algorithm.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		providerRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "routewise",
			Name:      "provider_retries_total",
			Help:      "Retried upstream route source requests.",
		}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "routewise",
			Name:      "graph_nodes",
			Help:      "Merged graph size in nodes.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		}),
	}

	m.registry.MustRegister(m.cacheHits, m.cacheMisses, m.engineDuration,
		m.providerRetries, m.graphNodes)
	return m
}

func (m *Metrics) CacheHit(store string) {
	m.cacheHits.WithLabelValues(store).Inc()
}

func (m *Metrics) CacheMiss(store string) {
	m.cacheMisses.WithLabelValues(store).Inc()
}

func (m *Metrics) ObserveEngine(algorithm string, elapsed time.Duration) {
	m.engineDuration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}

func (m *Metrics) ProviderRetry() {
	m.providerRetries.Inc()
}

func (m *Metrics) ObserveGraphSize(nodes int) {
	m.graphNodes.Observe(float64(nodes))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
