package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
)

func TestCountersStartAtZero(t *testing.T) {
	m := NewUnregisteredMetrics()
	assert.Equal(t, testutil.ToFloat64(m.RacesAttempted), 0.0)
	m.RacesAttempted.Inc()
	m.PassesRun.Inc()
	assert.Equal(t, testutil.ToFloat64(m.RacesAttempted), 1.0)
	assert.Equal(t, testutil.ToFloat64(m.PassesRun), 1.0)
	assert.Equal(t, testutil.ToFloat64(m.RacesFailed), 0.0)
}

func TestHandlerServesMetrics(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)
	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, rec.Body.Len() > 0)
}
