package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// JobQueue schedules an internal HTTP job, e.g. through QStash.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// WarmLeaderboardJobPath is the internal route that rebuilds the leaderboard memo.
const WarmLeaderboardJobPath = "/v1/internal/jobs/warm-leaderboard"

type WarmLeaderboardPayload struct {
	RaceID string `json:"race_id"`
}

// Recorder receives domain events for metrics.
type Recorder interface {
	TipSubmitted(picks int)
	RaceClosed()
	LeaderboardBuilt(users, scorableRaces int, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) TipSubmitted(int)                         {}
func (noopRecorder) RaceClosed()                              {}
func (noopRecorder) LeaderboardBuilt(int, int, time.Duration) {}

// LeaderboardInvalidator drops any memoized leaderboard after a write that
// can change standings.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func dedupKey(prefix, id string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	return sanitizeDedupSegment(prefix) + "-" + sanitizeDedupSegment(id) + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}
