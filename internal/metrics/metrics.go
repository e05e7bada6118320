// Package metrics exposes Prometheus metrics for the conversation agent
// and its HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wareongo/internal/agent"
)

const namespace = "wareongo"

// Recorder holds every metric and implements agent.Observer
type Recorder struct {
	// ActionsTotal counts dispatched workflow actions. Labels: action
	ActionsTotal *prometheus.CounterVec
	// SearchesTotal counts searches by outcome (none, exhausted, partial, full, last)
	SearchesTotal *prometheus.CounterVec
	// SearchResults observes the number of warehouses returned per page
	SearchResults prometheus.Histogram
	// FailuresTotal counts recovered failures. Labels: kind
	FailuresTotal *prometheus.CounterVec
	// TurnsTotal counts chat turns by result (ok, error)
	TurnsTotal *prometheus.CounterVec
	// TurnDuration measures whole chat turns
	TurnDuration prometheus.Histogram

	// HTTPRequestsTotal counts requests by route, method and status code
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPDuration measures request latency by route
	HTTPDuration *prometheus.HistogramVec
}

// NewRecorder registers all metrics with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		ActionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "actions_total",
			Help:      "Workflow actions dispatched by the orchestrator",
		}, []string{"action"}),
		SearchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "searches_total",
			Help:      "Warehouse searches by outcome",
		}, []string{"outcome"}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "search_results",
			Help:      "Warehouses returned per search page",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 10},
		}),
		FailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "failures_total",
			Help:      "Recovered failures by kind (extraction, resolution, search, phrasing, depth)",
		}, []string{"kind"}),
		TurnsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "turns_total",
			Help:      "Chat turns by result",
		}, []string{"result"}),
		TurnDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "agent",
			Name:      "turn_duration_seconds",
			Help:      "Time to process one chat turn",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveAction implements agent.Observer
func (r *Recorder) ObserveAction(action agent.Action) {
	r.ActionsTotal.WithLabelValues(action.String()).Inc()
}

// ObserveSearch implements agent.Observer
func (r *Recorder) ObserveSearch(outcome string, results int) {
	r.SearchesTotal.WithLabelValues(outcome).Inc()
	r.SearchResults.Observe(float64(results))
}

// ObserveFailure implements agent.Observer
func (r *Recorder) ObserveFailure(kind string) {
	r.FailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveTurn records one finished chat turn
func (r *Recorder) ObserveTurn(took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.TurnsTotal.WithLabelValues(result).Inc()
	r.TurnDuration.Observe(took.Seconds())
}

// Middleware records request counts and latency per matched route
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

var _ agent.Observer = (*Recorder)(nil)
