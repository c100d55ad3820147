package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncItemsCreated()
	m.IncItemsCreated()
	m.IncActivityLogFailures()
	m.AddActivitiesPurged(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ItemsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActivityLogFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActivitiesPurged))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, http.StatusOK, time.Now())
	m.ObserveRequest(http.MethodGet, http.StatusOK, time.Now())
	m.ObserveRequest(http.MethodPost, http.StatusBadRequest, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "400")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// Each registry accepts its own set without duplicate registration panics.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
