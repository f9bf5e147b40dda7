// Package metrics holds the Prometheus instruments shared across features.
// Instruments register against an injected Registerer so tests can use a
// fresh registry instead of fighting over the global one.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec

	ItemsAdded             prometheus.Counter
	ItemsRemoved           prometheus.Counter
	ProgressionsRegistered prometheus.Counter
	RuleRejections         *prometheus.CounterVec

	UsersRegistered prometheus.Counter
	LoginFailures   prometheus.Counter
}

// New creates and registers all metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todotrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ItemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "todotrack_items_added_total",
			Help: "Total number of todo items added.",
		}),
		ItemsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "todotrack_items_removed_total",
			Help: "Total number of todo items removed.",
		}),
		ProgressionsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "todotrack_progressions_registered_total",
			Help: "Total number of progressions registered on items.",
		}),
		RuleRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "todotrack_rule_rejections_total",
			Help: "Domain rule rejections by rule kind.",
		}, []string{"kind"}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "todotrack_users_registered_total",
			Help: "Total number of users registered.",
		}),
		LoginFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "todotrack_login_failures_total",
			Help: "Total number of failed login attempts.",
		}),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncRuleRejection counts a domain rule rejection by its kind label.
func (m *Metrics) IncRuleRejection(kind string) {
	m.RuleRejections.WithLabelValues(kind).Inc()
}
