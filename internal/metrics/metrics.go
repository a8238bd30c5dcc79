package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the rank mod daemon.
// Helper methods are safe to call on a nil registry.
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Monitor Metrics
	MonitorTicksTotal      prometheus.Counter
	MonitorTickErrorsTotal prometheus.Counter
	HostRunning            prometheus.Gauge

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	PromotionPassesTotal   prometheus.Counter
	PromotionPassDuration  prometheus.Histogram
	PromotionDecisions     *prometheus.CounterVec
	PromotionErrorsTotal   prometheus.Counter
	EventsInsertedTotal    prometheus.Counter
	MigrationsTotal        prometheus.Counter
	OrphansDeletedTotal    prometheus.Counter
	FeedPublishErrorsTotal prometheus.Counter
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankmod_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rankmod_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"endpoint", "method"},
		),

		// Monitor Metrics
		MonitorTicksTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_monitor_ticks_total",
				Help: "Total day-change monitor polls",
			},
		),
		MonitorTickErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_monitor_tick_errors_total",
				Help: "Monitor polls that ended with an error",
			},
		),
		HostRunning: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "rankmod_host_running",
				Help: "1 while the game process is detected",
			},
		),

		// Cache Metrics
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankmod_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankmod_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		PromotionPassesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_promotion_passes_total",
				Help: "Promotion passes started",
			},
		),
		PromotionPassDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankmod_promotion_pass_duration_seconds",
				Help:    "Promotion pass execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		PromotionDecisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankmod_promotion_decisions_total",
				Help: "Rule engine decisions by outcome",
			},
			[]string{"outcome"},
		),
		PromotionErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_promotion_errors_total",
				Help: "Pilots skipped in a pass because of an error",
			},
		),
		EventsInsertedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_events_inserted_total",
				Help: "Promotion events written to the career journal",
			},
		),
		MigrationsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_stat_migrations_total",
				Help: "Stat carry-overs applied to successor pilots",
			},
		),
		OrphansDeletedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_orphan_attempts_deleted_total",
				Help: "Promotion attempt rows removed because their pilot is gone",
			},
		),
		FeedPublishErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rankmod_feed_publish_errors_total",
				Help: "Promotion notices that could not be published",
			},
		),
	}
}

func (m *MetricsRegistry) ObserveTick(err error) {
	if m == nil {
		return
	}
	m.MonitorTicksTotal.Inc()
	if err != nil {
		m.MonitorTickErrorsTotal.Inc()
	}
}

func (m *MetricsRegistry) SetHostRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.HostRunning.Set(1)
		return
	}
	m.HostRunning.Set(0)
}

func (m *MetricsRegistry) ObservePass(start time.Time) {
	if m == nil {
		return
	}
	m.PromotionPassesTotal.Inc()
	m.PromotionPassDuration.Observe(time.Since(start).Seconds())
}

func (m *MetricsRegistry) ObserveDecision(outcome string) {
	if m == nil {
		return
	}
	m.PromotionDecisions.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) IncPromotionErrors() {
	if m == nil {
		return
	}
	m.PromotionErrorsTotal.Inc()
}

func (m *MetricsRegistry) IncEventsInserted() {
	if m == nil {
		return
	}
	m.EventsInsertedTotal.Inc()
}

func (m *MetricsRegistry) IncMigrations() {
	if m == nil {
		return
	}
	m.MigrationsTotal.Inc()
}

func (m *MetricsRegistry) AddOrphansDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.OrphansDeletedTotal.Add(float64(n))
}

func (m *MetricsRegistry) IncFeedErrors() {
	if m == nil {
		return
	}
	m.FeedPublishErrorsTotal.Inc()
}

func (m *MetricsRegistry) ObserveCache(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}
