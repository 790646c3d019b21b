package jobqueue

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/race-tipping/internal/platform/logging"
	"github.com/riskibarqy/race-tipping/internal/platform/resilience"
	"github.com/riskibarqy/race-tipping/internal/usecase"
)

var _ usecase.JobQueue = (*QStashPublisher)(nil)

func TestQStashPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	received := make(chan *http.Request, 1)
	bodies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		received <- r
		bodies <- string(raw)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL + "/",
		Token:            "qstash-token",
		TargetBaseURL:    "https://tips.example.com/",
		Retries:          3,
		InternalJobToken: "internal",
	}, logging.NewNop())

	err := p.Enqueue(context.Background(), usecase.WarmLeaderboardJobPath, usecase.WarmLeaderboardPayload{RaceID: "mon"}, 5*time.Second, "warm-mon")
	require.NoError(t, err)

	req := <-received
	assert.Equal(t, "/v2/publish/https://tips.example.com/v1/internal/jobs/warm-leaderboard", req.URL.Path)
	assert.Equal(t, "Bearer qstash-token", req.Header.Get("Authorization"))
	assert.Equal(t, "5s", req.Header.Get("Upstash-Delay"))
	assert.Equal(t, "3", req.Header.Get("Upstash-Retries"))
	assert.Equal(t, "warm-mon", req.Header.Get("Upstash-Deduplication-Id"))
	assert.Equal(t, "internal", req.Header.Get("Upstash-Forward-X-Internal-Job-Token"))
	assert.Contains(t, <-bodies, `"mon"`)
}

func TestQStashPublisher_NilPayloadSendsEmptyObject(t *testing.T) {
	t.Parallel()

	bodies := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies <- string(raw)
		assert.Empty(t, r.Header.Get("Upstash-Delay"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{BaseURL: srv.URL, TargetBaseURL: "https://tips.example.com"}, nil)
	require.NoError(t, p.Enqueue(context.Background(), "jobs/x", nil, 0, ""))
	assert.Equal(t, "{}", <-bodies)
}

func TestQStashPublisher_ServerErrorsTripBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        srv.URL,
		TargetBaseURL:  "https://tips.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, logging.NewNop())

	err := p.Enqueue(context.Background(), "/jobs/x", nil, 0, "")
	assert.True(t, errors.Is(err, errQStashTransient), "got %v", err)

	err = p.Enqueue(context.Background(), "/jobs/x", nil, 0, "")
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen), "got %v", err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestQStashPublisher_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:        srv.URL,
		TargetBaseURL:  "https://tips.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, logging.NewNop())

	for range 2 {
		err := p.Enqueue(context.Background(), "/jobs/x", nil, 0, "")
		require.Error(t, err)
		assert.False(t, errors.Is(err, errQStashTransient))
		assert.False(t, errors.Is(err, resilience.ErrCircuitOpen))
	}
}

func TestQStashPublisher_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	p := NewQStashPublisher(QStashPublisherConfig{BaseURL: "ftp://qstash", TargetBaseURL: "https://x"}, logging.NewNop())
	assert.Error(t, p.Enqueue(context.Background(), "/jobs/x", nil, 0, ""))
	assert.Error(t, p.Enqueue(context.Background(), " ", nil, 0, ""))

	p = NewQStashPublisher(QStashPublisherConfig{BaseURL: "https://qstash", TargetBaseURL: ""}, logging.NewNop())
	assert.Error(t, p.Enqueue(context.Background(), "/jobs/x", nil, 0, ""))
}

func TestPublishMessage_CurlPreviewRedactsSecrets(t *testing.T) {
	t.Parallel()

	msg := newPublishMessage("https://qstash", "https://tips", "/x", []byte(`{"a":"it's"}`), messageOptions{
		token:           "real-token",
		retries:         2,
		delay:           3 * time.Second,
		deduplicationID: " d1 ",
		forwardToken:    "real-internal",
	})
	preview := msg.curlPreview()

	for _, want := range []string{"Bearer ***", "Upstash-Delay: 3s", "Upstash-Retries: 2", "Upstash-Deduplication-Id: d1", "X-Internal-Job-Token: ***", `'"'"'`} {
		assert.Contains(t, preview, want)
	}
	assert.NotContains(t, preview, "real-token")
	assert.NotContains(t, preview, "real-internal")
	assert.Equal(t, "Bearer real-token", msg.header("Authorization"))
}

func TestFormatDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0s", formatDelay(0))
	assert.Equal(t, "0s", formatDelay(-time.Second))
	assert.Equal(t, "2s", formatDelay(1500*time.Millisecond))
	assert.Equal(t, "90s", formatDelay(90*time.Second))
}
