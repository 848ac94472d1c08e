// Package metrics provides Prometheus metrics for the crop prospector service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service metrics and the registry they live on.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	// Recommendation metrics
	recommendations        *prometheus.CounterVec
	recommendationDuration prometheus.Histogram
	soilFallbacks          prometheus.Counter
	locationFallbacks      prometheus.Counter
	waterPenalties         prometheus.Counter

	// History metrics
	historySaveErrors prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Without WithRegistry a fresh registry
// carrying the Go and process collectors is used.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "prospector",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "recommendations_total",
		Help:        "Total number of crop recommendations served by soil and water availability",
		ConstLabels: m.constLabels,
	}, []string{"soil", "water"})

	m.recommendationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "recommendation_duration_seconds",
		Help:        "Time spent computing a recommendation",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.soilFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "soil_fallbacks_total",
		Help:        "Recommendations where the soil type was unknown and the default list was used",
		ConstLabels: m.constLabels,
	})

	m.locationFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "location_fallbacks_total",
		Help:        "Recommendations where the region was unknown and the default climate was used",
		ConstLabels: m.constLabels,
	})

	m.waterPenalties = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "water_penalties_total",
		Help:        "Crops whose profit and risk were adjusted for low water availability",
		ConstLabels: m.constLabels,
	})

	m.historySaveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "history_save_errors_total",
		Help:        "Query history records that could not be persisted",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by route, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration by route and method",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method"})
}

// RecordRecommendation records one served recommendation.
func (m *Manager) RecordRecommendation(soil, water string, d time.Duration, soilFallback, locationFallback bool, penalised int) {
	m.recommendations.WithLabelValues(soil, water).Inc()
	m.recommendationDuration.Observe(d.Seconds())
	if soilFallback {
		m.soilFallbacks.Inc()
	}
	if locationFallback {
		m.locationFallbacks.Inc()
	}
	if penalised > 0 {
		m.waterPenalties.Add(float64(penalised))
	}
}

// RecordHistorySaveError counts a failed history write.
func (m *Manager) RecordHistorySaveError() {
	m.historySaveErrors.Inc()
}

// RecordHTTPRequest records a completed HTTP request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
