// File: internal/monitoring/metrics.go
package monitoring

import (
	"context"
	"net/http"
	"time"

	"studyos/internal/cache"
	"studyos/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "studyos"

// Metrics owns a private registry with HTTP and domain collectors.
//
// Metrics:
//   - studyos_http_requests_total{method,route,status}
//   - studyos_http_request_duration_seconds{method,route}
//   - studyos_http_requests_in_flight
//   - studyos_http_panics_total
//   - studyos_sessions_completed_total, studyos_focus_minutes_total
//   - studyos_xp_awarded_total{source}, studyos_level_ups_total
//   - studyos_badges_awarded_total{badge}
//   - studyos_tasks_completed_total, studyos_messages_posted_total
//   - studyos_subscription_changes_total{tier}, studyos_users_registered_total{provider}
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
	HTTPPanics   prometheus.Counter

	SessionsCompleted   prometheus.Counter
	FocusMinutes        prometheus.Counter
	XPAwarded           *prometheus.CounterVec
	LevelUps            prometheus.Counter
	BadgesAwarded       *prometheus.CounterVec
	TasksCompleted      prometheus.Counter
	MessagesPosted      prometheus.Counter
	SubscriptionChanges *prometheus.CounterVec
	UsersRegistered     *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		}),
		HTTPPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Recovered handler panics",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Focus sessions ended",
		}),
		FocusMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "focus_minutes_total",
			Help:      "Minutes studied across all sessions",
		}),
		XPAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_awarded_total",
			Help:      "XP granted by source",
		}, []string{"source"}),
		LevelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "level_ups_total",
			Help:      "Level transitions",
		}),
		BadgesAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badges_awarded_total",
			Help:      "Badges granted",
		}, []string{"badge"}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Tasks completed for the first time",
		}),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_posted_total",
			Help:      "Community messages posted",
		}),
		SubscriptionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_changes_total",
			Help:      "Subscription tier transitions",
		}, []string{"tier"}),
		UsersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "New accounts by identity provider",
		}, []string{"provider"}),
	}

	m.registry.MustRegister(
		m.HTTPRequests, m.HTTPDuration, m.HTTPInFlight, m.HTTPPanics,
		m.SessionsCompleted, m.FocusMinutes, m.XPAwarded, m.LevelUps,
		m.BadgesAwarded, m.TasksCompleted, m.MessagesPosted,
		m.SubscriptionChanges, m.UsersRegistered,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the private registry together with the default one, which
// carries the Go runtime, process and database collectors
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{m.registry, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RegisterCacheStats exports cache hit ratio and key count at scrape time
func (m *Metrics) RegisterCacheStats(c cache.Cache) error {
	stat := func(pick func(*cache.CacheStats) float64) func() float64 {
		return func() float64 {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			s, err := c.Stats(ctx)
			if err != nil || s == nil {
				return 0
			}
			return pick(s)
		}
	}
	return registerAll(m.registry,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cache_hit_ratio", Help: "Cache hit ratio since start",
		}, stat(func(s *cache.CacheStats) float64 { return s.HitRatio })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "cache_keys", Help: "Keys held by the cache",
		}, stat(func(s *cache.CacheStats) float64 { return float64(s.Keys) })),
	)
}

// RegisterEventBusStats exports event bus throughput and queue depth
func (m *Metrics) RegisterEventBusStats(bus events.EventBus) error {
	return registerAll(m.registry,
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_published_total", Help: "Domain events published",
		}, func() float64 { return float64(bus.Stats().EventsPublished) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_failed_total", Help: "Domain event handler failures",
		}, func() float64 { return float64(bus.Stats().EventsFailed) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace, Name: "events_queue_depth", Help: "Async events waiting for a worker",
		}, func() float64 { return float64(bus.Stats().QueueDepth) }),
	)
}

func registerAll(reg *prometheus.Registry, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
