package providers

import (
	"adforge/internal/services"
	"adforge/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(namespace string)
	IncCacheMisses(namespace string)
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceFailures(reason string)
	IncGatewayCalls(operation string, success bool)
	ObserveGatewayDuration(operation string, duration time.Duration)
	IncActionsTotal(kind string, outcome string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	persistenceFailures *prometheus.CounterVec
	gatewayCalls        *prometheus.CounterVec
	gatewayDuration     *prometheus.HistogramVec
	actionsTotal        *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(namespace string) {
	m.cacheHits.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) IncCacheMisses(namespace string) {
	m.cacheMisses.WithLabelValues(namespace).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures(reason string) {
	m.persistenceFailures.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncGatewayCalls(operation string, success bool) {
	m.gatewayCalls.WithLabelValues(operation, outcomeLabel(success)).Inc()
}

func (m *MetricsProvider) ObserveGatewayDuration(operation string, duration time.Duration) {
	m.gatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncActionsTotal(kind string, outcome string) {
	m.actionsTotal.WithLabelValues(kind, outcome).Inc()
}

func outcomeLabel(success bool) string {
	if success {
		return "ok"
	}
	return "error"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, store services.SessionStoreInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adforge_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_cache_hits_total",
			Help: "Total number of cache hits by key namespace",
		}, []string{"namespace"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_cache_misses_total",
			Help: "Total number of cache misses by key namespace",
		}, []string{"namespace"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "adforge_persistence_duration_seconds",
			Help:    "Duration of session saves in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_persistence_failures_total",
			Help: "Session saves that did not reach the store",
		}, []string{"reason"}),

		gatewayCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_gateway_calls_total",
			Help: "Calls to the generation backend",
		}, []string{"operation", "outcome"}),

		gatewayDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adforge_gateway_duration_seconds",
			Help:    "Generation backend latency in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"operation"}),

		actionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adforge_actions_total",
			Help: "Finished user actions by kind and outcome",
		}, []string{"kind", "outcome"}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "adforge_sessions_total",
		Help: "Number of sessions in the store",
	}, func() float64 {
		return float64(store.Len())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "adforge_store_revision",
		Help: "Current revision of the session store",
	}, func() float64 {
		return float64(store.Revision())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceFailures(_ string)                  {}
func (n *noopMetrics) IncGatewayCalls(_ string, _ bool)                 {}
func (n *noopMetrics) ObserveGatewayDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncActionsTotal(_ string, _ string)               {}
