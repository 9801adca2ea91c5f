package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordAuthorizationDenied(t *testing.T) {
	before := testutil.ToFloat64(authorizationDenied.WithLabelValues("user.list", "role"))
	RecordAuthorizationDenied("user.list", "role")
	require.Equal(t, before+1, testutil.ToFloat64(authorizationDenied.WithLabelValues("user.list", "role")))
}

func TestObserveHTTPRequestDefaultsRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTPRequest("GET", "", 404, 5*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveHTTPRequestRecordsLatency(t *testing.T) {
	ObserveHTTPRequest("POST", "POST /api/users", 200, 20*time.Millisecond)

	observer, err := httpDuration.GetMetricWithLabelValues("POST", "POST /api/users")
	require.NoError(t, err)

	var metric dto.Metric
	require.NoError(t, observer.(prometheus.Metric).Write(&metric))
	require.GreaterOrEqual(t, metric.GetHistogram().GetSampleCount(), uint64(1))
	require.Greater(t, metric.GetHistogram().GetSampleSum(), 0.0)
}
