package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("nil is disabled", func(t *testing.T) {
		var m *Metrics
		m.Request()
		m.Failure(KindHandler)
		m.Suppress("send")
		m.Body(10)
	})

	t.Run("counting", func(t *testing.T) {
		m := New(prometheus.NewRegistry())
		m.Request()
		m.Request()
		m.Failure(KindBody)
		m.Suppress("json")

		require.Equal(t, 2.0, testutil.ToFloat64(m.Requests))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues(KindBody)))
		require.Equal(t, 0.0, testutil.ToFloat64(m.Failures.WithLabelValues(KindHandler)))
		require.Equal(t, 1.0, testutil.ToFloat64(m.Suppressed.WithLabelValues("json")))
	})

	t.Run("handler", func(t *testing.T) {
		reg := NewRegistry()
		New(reg).Request()

		rec := httptest.NewRecorder()
		Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		require.Equal(t, 200, rec.Code)
		require.True(t, strings.Contains(rec.Body.String(), "shim_requests_total 1"))
	})
}
