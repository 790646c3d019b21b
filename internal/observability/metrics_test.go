package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewMetrics()

	m.ObserveHTTPRequest(http.MethodGet, "GET /v1/races/{raceID}", http.StatusOK, 12*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "GET /v1/races/{raceID}", http.StatusOK, 8*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPut, "PUT /v1/races/{raceID}/tips/me", http.StatusTooManyRequests, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "GET /v1/races/{raceID}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("PUT", "PUT /v1/races/{raceID}/tips/me", "429")))
}

func TestMetrics_DomainRecorder(t *testing.T) {
	m := NewMetrics()

	m.TipSubmitted(3)
	m.TipSubmitted(10)
	m.RaceClosed()
	m.LeaderboardBuilt(4, 2, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tipsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.racesClosed))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.leaderboardUsers))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scorableRaces))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RaceClosed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "race_tipping_races_closed_total 1"), "missing races_closed counter")
	assert.True(t, strings.Contains(body, "go_goroutines"), "missing runtime collector")
}
