// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CalendarDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workpulse_calendar_build_duration_seconds",
		Help:    "Time to build a calendar month, by report kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	DayDetailsDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workpulse_day_details_duration_seconds",
		Help:    "Time to build a day's detail rows, by report kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	RequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workpulse_request_errors_total",
		Help: "Handler errors by endpoint and class (client, server).",
	}, []string{"endpoint", "class"})
	ReportsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workpulse_reports_submitted_total",
		Help: "Reports accepted, by kind.",
	}, []string{"kind"})
	ChatMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workpulse_chat_messages_total",
		Help: "Chat messages posted.",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workpulse_stats_cache_hits_total",
		Help: "Calendar cache hits.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workpulse_stats_cache_misses_total",
		Help: "Calendar cache misses.",
	})
	Entities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "workpulse_entities",
		Help: "Current document counts by entity.",
	}, []string{"entity"})
)

func init() {
	prometheus.MustRegister(
		CalendarDuration,
		DayDetailsDuration,
		RequestErrors,
		ReportsSubmitted,
		ChatMessages,
		CacheHits,
		CacheMisses,
		Entities,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSince records the seconds elapsed since start on h.
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
