package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "race_tipping"

// Metrics owns a private registry so tests can build as many as they like
// without colliding on the default one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	tipsSubmitted    prometheus.Counter
	tipPicks         prometheus.Histogram
	racesClosed      prometheus.Counter
	leaderboardBuild prometheus.Histogram
	leaderboardUsers prometheus.Gauge
	scorableRaces    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		tipsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tips_submitted_total",
			Help:      "Accepted tip submissions.",
		}),
		tipPicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "tip_picks",
			Help:      "Number of names kept per accepted tip.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		racesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "races_closed_total",
			Help:      "Races closed with an official order.",
		}),
		leaderboardBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "leaderboard_build_duration_seconds",
			Help:      "Time spent computing the leaderboard from storage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		leaderboardUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "leaderboard_users",
			Help:      "Users ranked by the last leaderboard build.",
		}),
		scorableRaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "leaderboard_scorable_races",
			Help:      "Closed races with results seen by the last leaderboard build.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.tipsSubmitted,
		m.tipPicks,
		m.racesClosed,
		m.leaderboardBuild,
		m.leaderboardUsers,
		m.scorableRaces,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) TipSubmitted(picks int) {
	m.tipsSubmitted.Inc()
	m.tipPicks.Observe(float64(picks))
}

func (m *Metrics) RaceClosed() {
	m.racesClosed.Inc()
}

func (m *Metrics) LeaderboardBuilt(users, scorableRaces int, duration time.Duration) {
	m.leaderboardBuild.Observe(duration.Seconds())
	m.leaderboardUsers.Set(float64(users))
	m.scorableRaces.Set(float64(scorableRaces))
}
