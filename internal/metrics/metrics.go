package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "auth_frontend"

// Metrics groups the collectors the server exports. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	loginAttempts  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	remoteRequests *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Route guard decisions.",
		}, []string{"decision"}),
		remoteRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auth_api_request_duration_seconds",
			Help:      "Latency of calls to the remote authentication API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.loginAttempts, m.guardDecisions, m.remoteRequests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveLogin(provider, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveGuard(decision string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(decision).Inc()
}

func (m *Metrics) ObserveRemote(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.remoteRequests.WithLabelValues(endpoint, outcome).Observe(elapsed.Seconds())
}
