package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/workpulse/internal/app/system/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(metrics.ReportsSubmitted.WithLabelValues("eod"))
	metrics.ReportsSubmitted.WithLabelValues("eod").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ReportsSubmitted.WithLabelValues("eod")))
}

func TestObserveSince(t *testing.T) {
	metrics.ObserveSince(metrics.CalendarDuration.WithLabelValues("memo"), time.Now().Add(-time.Second))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.CalendarDuration))
}

func TestHandlerExposesCollectors(t *testing.T) {
	metrics.ChatMessages.Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "workpulse_chat_messages_total")
}
