package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements Recorder on top of Prometheus.
type Collector struct {
	registrations      prometheus.Counter
	loginSuccess       prometheus.Counter
	loginFailure       prometheus.Counter
	tokensIssued       prometheus.Counter
	tokensRevoked      prometheus.Counter
	validationFailures *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authd_registrations_total",
			Help: "Total number of successful user registrations",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authd_login_success_total",
			Help: "Total number of successful logins",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authd_login_failure_total",
			Help: "Total number of failed login attempts",
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authd_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),
		tokensRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authd_tokens_revoked_total",
			Help: "Total number of access tokens revoked",
		}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authd_token_validation_failures_total",
			Help: "Token validation failures by kind",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFailure,
		c.tokensIssued,
		c.tokensRevoked,
		c.validationFailures,
	)

	return c
}

// IncRegistration records a successful registration.
func (c *Collector) IncRegistration() {
	c.registrations.Inc()
}

// IncLoginSuccess records a successful login.
func (c *Collector) IncLoginSuccess() {
	c.loginSuccess.Inc()
}

// IncLoginFailure records a failed login attempt.
func (c *Collector) IncLoginFailure() {
	c.loginFailure.Inc()
}

// IncTokenIssued records an issued access token.
func (c *Collector) IncTokenIssued() {
	c.tokensIssued.Inc()
}

// IncTokenRevoked records a revoked access token.
func (c *Collector) IncTokenRevoked() {
	c.tokensRevoked.Inc()
}

// IncValidationFailure records a token validation failure.
func (c *Collector) IncValidationFailure(kind string) {
	c.validationFailures.WithLabelValues(kind).Inc()
}
