package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP and domain collectors. A nil *Metrics records nothing.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authRejections      *prometheus.CounterVec

	sessionsCompleted      prometheus.Counter
	sessionsFailed         prometheus.Counter
	challengeCompletions   prometheus.Counter
	publicFirstCompletions prometheus.Counter
	saveFailures           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of unauthorized requests",
			},
			[]string{"reason"},
		),
		sessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unplugged_sessions_completed_total",
			Help: "Sessions stopped normally and folded into stats",
		}),
		sessionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unplugged_sessions_failed_total",
			Help: "Strict sessions failed by losing focus",
		}),
		challengeCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unplugged_challenge_completions_total",
			Help: "Challenge completions, including repeats",
		}),
		publicFirstCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unplugged_public_first_completions_total",
			Help: "Completions that moved a public challenge counter",
		}),
		saveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unplugged_save_failures_total",
				Help: "Background saves that failed and were dropped",
			},
			[]string{"what"},
		),
	}

	collectors := []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authRejections,
		m.sessionsCompleted,
		m.sessionsFailed,
		m.challengeCompletions,
		m.publicFirstCompletions,
		m.saveFailures,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(path, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(path, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(path, method).Observe(seconds)
}

// AuthRejected records a rejected request
func (m *Metrics) AuthRejected(reason string) {
	if m == nil {
		return
	}
	m.authRejections.WithLabelValues(reason).Inc()
}

// SessionCompleted records a normally stopped session
func (m *Metrics) SessionCompleted() {
	if m == nil {
		return
	}
	m.sessionsCompleted.Inc()
}

// SessionFailed records an interrupted strict session
func (m *Metrics) SessionFailed() {
	if m == nil {
		return
	}
	m.sessionsFailed.Inc()
}

// ChallengeCompleted records a challenge completion
func (m *Metrics) ChallengeCompleted() {
	if m == nil {
		return
	}
	m.challengeCompletions.Inc()
}

// PublicFirstCompletion records a completion that moved a shared counter
func (m *Metrics) PublicFirstCompletion() {
	if m == nil {
		return
	}
	m.publicFirstCompletions.Inc()
}

// SaveFailed records a dropped background save
func (m *Metrics) SaveFailed(what string) {
	if m == nil {
		return
	}
	m.saveFailures.WithLabelValues(what).Inc()
}
