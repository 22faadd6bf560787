package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot summarises process level metrics for the admin dashboard.
type MetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	StoreOperations          uint64    `json:"storeOperations"`
	AverageStoreDurationMs   float64   `json:"averageStoreDurationMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storeDuration   *prometheus.HistogramVec
	importsTotal    *prometheus.CounterVec
	importedRecords *prometheus.CounterVec
	aiRequests      *prometheus.CounterVec
	aiDuration      *prometheus.HistogramVec
	mailsTotal      *prometheus.CounterVec
	mutationsTotal  *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	storeOpCount         uint64
	storeDurationTotal   uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of store writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "collection"})

	importsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imports_total",
		Help: "Bulk imports by target and outcome",
	}, []string{"target", "outcome"})

	importedRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imported_records_total",
		Help: "Records written by bulk imports",
	}, []string{"target"})

	aiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_requests_total",
		Help: "Language model calls by flow and outcome",
	}, []string{"flow", "outcome"})

	aiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_request_duration_seconds",
		Help:    "Latency of language model calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"flow"})

	mailsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Emails sent by template and outcome",
	}, []string{"template", "outcome"})

	mutationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "content_mutations_total",
		Help: "Content mutations by collection and action",
	}, []string{"collection", "action"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		storeDuration, importsTotal, importedRecords, aiRequests, aiDuration, mailsTotal, mutationsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		storeDuration:   storeDuration,
		importsTotal:    importsTotal,
		importedRecords: importedRecords,
		aiRequests:      aiRequests,
		aiDuration:      aiDuration,
		mailsTotal:      mailsTotal,
		mutationsTotal:  mutationsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveStoreOperation records store write timing.
func (m *MetricsService) ObserveStoreOperation(operation, collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeOpCount, 1)
	atomic.AddUint64(&m.storeDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordMutation counts a successful content mutation.
func (m *MetricsService) RecordMutation(collection, action string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(collection, action).Inc()
}

// RecordImport counts a bulk import and the records it wrote.
func (m *MetricsService) RecordImport(target string, success bool, records int) {
	if m == nil {
		return
	}
	m.importsTotal.WithLabelValues(target, outcome(success)).Inc()
	if success && records > 0 {
		m.importedRecords.WithLabelValues(target).Add(float64(records))
	}
}

// ObserveAIRequest records a language model call.
func (m *MetricsService) ObserveAIRequest(flow string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(flow, outcome(success)).Inc()
	m.aiDuration.WithLabelValues(flow).Observe(duration.Seconds())
}

// RecordNotification counts an email send attempt.
func (m *MetricsService) RecordNotification(template string, success bool) {
	if m == nil {
		return
	}
	m.mailsTotal.WithLabelValues(template, outcome(success)).Inc()
}

// Snapshot returns aggregated metrics for the dashboard.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	storeCount := atomic.LoadUint64(&m.storeOpCount)
	storeDuration := atomic.LoadUint64(&m.storeDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgStoreMs float64
	if storeCount > 0 {
		avgStoreMs = float64(storeDuration) / float64(storeCount) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		StoreOperations:          storeCount,
		AverageStoreDurationMs:   avgStoreMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
