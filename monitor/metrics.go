package monitor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector client-side metrics collector
type MetricsCollector struct {
	// Analytics pipeline
	analyticsEnqueuedTotal   *prometheus.CounterVec
	analyticsDispatchedTotal *prometheus.CounterVec
	analyticsDroppedTotal    *prometheus.CounterVec
	analyticsDispatchSeconds prometheus.Histogram

	// Notification channel
	notificationReceivedTotal *prometheus.CounterVec
	socketReconnectTotal      prometheus.Counter
	socketExhaustedTotal      prometheus.Counter
	alertThrottledTotal       prometheus.Counter

	// REST client
	apiRequestTotal    *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	searchCacheTotal   *prometheus.CounterVec
}

var (
	defaultCollector *MetricsCollector
	collectorOnce    sync.Once
)

// Default returns the process-wide metrics collector. Metrics register with
// the default prometheus registry exactly once.
func Default() *MetricsCollector {
	collectorOnce.Do(func() {
		defaultCollector = newMetricsCollector()
	})
	return defaultCollector
}

func newMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{}

	mc.analyticsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_analytics_enqueued_total",
			Help: "Total number of analytics events enqueued for dispatch",
		},
		[]string{"event_type"},
	)
	mc.analyticsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_analytics_dispatched_total",
			Help: "Total number of analytics events dispatched to the sink",
		},
		[]string{"event_type", "status"},
	)
	mc.analyticsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_analytics_dropped_total",
			Help: "Total number of analytics events dropped",
		},
		[]string{"reason"},
	)
	mc.analyticsDispatchSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "client_analytics_dispatch_seconds",
			Help:    "Duration of analytics dispatch requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	mc.notificationReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_notification_received_total",
			Help: "Total number of push notifications received",
		},
		[]string{"type"},
	)
	mc.socketReconnectTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "client_socket_reconnect_total",
			Help: "Total number of socket reconnect attempts",
		},
	)
	mc.socketExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "client_socket_reconnect_exhausted_total",
			Help: "Total number of times reconnect attempts were exhausted",
		},
	)
	mc.alertThrottledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "client_alert_throttled_total",
			Help: "Total number of user-facing alerts suppressed by the throttle",
		},
	)

	mc.apiRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_api_request_total",
			Help: "Total number of backend REST requests",
		},
		[]string{"endpoint", "status"},
	)
	mc.apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_api_request_seconds",
			Help:    "Duration of backend REST requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	mc.searchCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_search_cache_total",
			Help: "Search/listing response cache lookups",
		},
		[]string{"result"},
	)

	return mc
}

// RecordAnalyticsEnqueued records an event accepted into the dispatch queue
func (mc *MetricsCollector) RecordAnalyticsEnqueued(eventType string) {
	if mc == nil {
		return
	}
	mc.analyticsEnqueuedTotal.WithLabelValues(eventType).Inc()
}

// RecordAnalyticsDispatched records a completed dispatch attempt
func (mc *MetricsCollector) RecordAnalyticsDispatched(eventType, status string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.analyticsDispatchedTotal.WithLabelValues(eventType, status).Inc()
	mc.analyticsDispatchSeconds.Observe(duration.Seconds())
}

// RecordAnalyticsDropped records a dropped event
func (mc *MetricsCollector) RecordAnalyticsDropped(reason string) {
	if mc == nil {
		return
	}
	mc.analyticsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordNotificationReceived records a push notification by type
func (mc *MetricsCollector) RecordNotificationReceived(notificationType string) {
	if mc == nil {
		return
	}
	mc.notificationReceivedTotal.WithLabelValues(notificationType).Inc()
}

// RecordSocketReconnect records one reconnect attempt
func (mc *MetricsCollector) RecordSocketReconnect() {
	if mc == nil {
		return
	}
	mc.socketReconnectTotal.Inc()
}

// RecordSocketExhausted records a run of reconnect attempts ending in failure
func (mc *MetricsCollector) RecordSocketExhausted() {
	if mc == nil {
		return
	}
	mc.socketExhaustedTotal.Inc()
}

// RecordAlertThrottled records a suppressed user-facing alert
func (mc *MetricsCollector) RecordAlertThrottled() {
	if mc == nil {
		return
	}
	mc.alertThrottledTotal.Inc()
}

// RecordAPIRequest records one backend REST request
func (mc *MetricsCollector) RecordAPIRequest(endpoint, status string, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.apiRequestTotal.WithLabelValues(endpoint, status).Inc()
	mc.apiRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSearchCache records a search cache hit or miss
func (mc *MetricsCollector) RecordSearchCache(result string) {
	if mc == nil {
		return
	}
	mc.searchCacheTotal.WithLabelValues(result).Inc()
}
