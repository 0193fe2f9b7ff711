// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the auth counters.
const (
	ResultSuccess        = "success"
	ResultInvalid        = "invalid_credentials"
	ResultDuplicate      = "duplicate"
	ResultValidation     = "validation"
	ResultError          = "error"
	ResultMissing        = "missing"
	ResultMalformed      = "malformed"
	ResultBadSignature   = "invalid_signature"
	ResultExpired        = "expired"
	ResultUnknownSubject = "unknown_subject"
	ResultCacheHit       = "hit"
	ResultCacheMiss      = "miss"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SignupsTotal            *prometheus.CounterVec
	LoginsTotal             *prometheus.CounterVec
	TokenVerificationsTotal *prometheus.CounterVec
	IdentityLookupsTotal    *prometheus.CounterVec
}

// New registers every collector on a private registry so tests can build
// as many instances as they like.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notes_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SignupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_auth_signups_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"result"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_auth_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"result"},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_auth_token_verifications_total",
				Help: "Bearer token checks performed by the auth middleware, by outcome",
			},
			[]string{"result"},
		),
		IdentityLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notes_identity_lookups_total",
				Help: "Identity resolutions by cache outcome",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SignupsTotal,
		m.LoginsTotal,
		m.TokenVerificationsTotal,
		m.IdentityLookupsTotal,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// The helpers below tolerate a nil receiver so components can run without
// metrics wired.

func (m *Metrics) Signup(result string) {
	if m == nil {
		return
	}
	m.SignupsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) TokenVerification(result string) {
	if m == nil {
		return
	}
	m.TokenVerificationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IdentityLookup(result string) {
	if m == nil {
		return
	}
	m.IdentityLookupsTotal.WithLabelValues(result).Inc()
}
