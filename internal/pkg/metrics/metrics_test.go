package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	t.Run("Records Values", func(t *testing.T) {
		c := NewCollector("bowell_test")

		c.ObserveRequest("GET", "/api/v1/examinations/", 200, 10*time.Millisecond)
		c.AnalysisDispatched()
		c.AnalysisCompleted("success")
		c.AnalysisCompleted("success")
		c.NotificationSent("notify", errors.New("redis down"))
		c.WebsocketOpened()

		assert.Equal(t, float64(1), testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "/api/v1/examinations/", "200")))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.AnalysesDispatchedTotal))
		assert.Equal(t, float64(2), testutil.ToFloat64(c.AnalysesCompletedTotal.WithLabelValues("success")))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.NotificationsTotal.WithLabelValues("notify", "error")))
		assert.Equal(t, float64(1), testutil.ToFloat64(c.WebsocketConnections))
	})

	t.Run("Separate Collectors Do Not Collide", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewCollector("bowell_test")
			NewCollector("bowell_test")
		})
	})

	t.Run("Nil Collector Is A No-op", func(t *testing.T) {
		var c *Collector
		assert.NotPanics(t, func() {
			c.ObserveRequest("GET", "/", 200, time.Millisecond)
			c.AnalysisCompleted("failure")
			c.WebsocketClosed()
		})
	})

	t.Run("Handler Exposes Metrics", func(t *testing.T) {
		c := NewCollector("bowell_test")
		c.AnalysisDispatched()

		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		assert.Equal(t, 200, rec.Code)
		assert.Contains(t, rec.Body.String(), "bowell_test_analysis_dispatched_total 1")
	})
}
