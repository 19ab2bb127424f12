package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	// Coordinator metrics
	Completions  *prometheus.CounterVec
	StaffRenames *prometheus.CounterVec

	// Listing cache metrics
	CacheLookups      *prometheus.CounterVec
	CacheInvalidation prometheus.Counter
	BreakerState      *prometheus.GaugeVec
}

// NewMetrics creates all application metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		Completions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coordinator",
			Name:      "appointment_completions_total",
			Help:      "Total number of appointment completions by outcome",
		}, []string{"outcome"}),
		StaffRenames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coordinator",
			Name:      "staff_renames_total",
			Help:      "Total number of staff updates by outcome",
		}, []string{"outcome"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing_cache",
			Name:      "lookups_total",
			Help:      "Total number of appointment listing cache lookups by result",
		}, []string{"result"}),
		CacheInvalidation: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "listing_cache",
			Name:      "invalidations_total",
			Help:      "Total number of appointment listing invalidations",
		}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "listing_cache",
			Name:      "breaker_open",
			Help:      "1 when the named circuit breaker is open",
		}, []string{"name"}),
	}
}

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Cache lookup label values.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
