package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	ItemsCreated        prometheus.Counter
	ActivitiesAppended  prometheus.Counter
	ActivityLogFailures prometheus.Counter
	ActivitiesPurged    prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ItemsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "shramba_items_created_total",
			Help: "Total number of items created",
		}),
		ActivitiesAppended: f.NewCounter(prometheus.CounterOpts{
			Name: "shramba_activities_appended_total",
			Help: "Total number of activity entries written",
		}),
		ActivityLogFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "shramba_activity_log_failures_total",
			Help: "Items whose activity entry could not be written",
		}),
		ActivitiesPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "shramba_activities_purged_total",
			Help: "Broken activity entries removed by reconciliation",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shramba_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		HTTPDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shramba_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncItemsCreated records a created item.
func (m *Metrics) IncItemsCreated() {
	m.ItemsCreated.Inc()
}

// IncActivitiesAppended records a written activity entry.
func (m *Metrics) IncActivitiesAppended() {
	m.ActivitiesAppended.Inc()
}

// IncActivityLogFailures records an item created without its activity entry.
func (m *Metrics) IncActivityLogFailures() {
	m.ActivityLogFailures.Inc()
}

// AddActivitiesPurged records n entries removed by reconciliation.
func (m *Metrics) AddActivitiesPurged(n int64) {
	m.ActivitiesPurged.Add(float64(n))
}

// ObserveRequest records a served HTTP request.
// Call with time.Now() taken at the start of the request.
func (m *Metrics) ObserveRequest(method string, code int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.HTTPDuration.Observe(time.Since(start).Seconds())
}
