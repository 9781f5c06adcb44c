package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus metrics for the identity engine.
type Registry struct {
	LoginAttemptsTotal    *prometheus.CounterVec
	RateLimitDenialsTotal prometheus.Counter
	RegistrationsTotal    prometheus.Counter
	ResetRequestsTotal    prometheus.Counter
	AuditWritesTotal      *prometheus.CounterVec
}

// NewRegistry registers all metrics against the given registerer.
// Passing a fresh prometheus.NewRegistry keeps tests independent.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		LoginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "koinonia_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		RateLimitDenialsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "koinonia_rate_limit_denials_total",
				Help: "Login attempts denied by the sliding-window rate limiter",
			},
		),
		RegistrationsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "koinonia_registrations_total",
				Help: "Successful account registrations",
			},
		),
		ResetRequestsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "koinonia_reset_requests_total",
				Help: "Password reset requests accepted (including anti-enumeration no-ops)",
			},
		),
		AuditWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "koinonia_audit_writes_total",
				Help: "Audit log entries written by action type",
			},
			[]string{"action"},
		),
	}
}
