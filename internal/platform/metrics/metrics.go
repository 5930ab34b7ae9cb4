package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SharesIssued cuenta tokens emitidos por tipo de acceso.
	SharesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidalink_shares_issued_total",
		Help: "Share tokens issued, by access type",
	}, []string{"access_type"})

	// ShareValidations cuenta intentos de validación por outcome.
	ShareValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidalink_share_validations_total",
		Help: "Share token validation attempts, by outcome",
	}, []string{"outcome"})

	// TokenCollisions cuenta colisiones al generar tokens (debería quedar en ~0).
	TokenCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidalink_share_token_collisions_total",
		Help: "Token strings regenerated because they were already taken",
	})

	SharesRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidalink_shares_revoked_total",
		Help: "Share tokens revoked by their owner",
	})

	// AccessAttemptsThrottled cuenta requests de médicos cortadas por el limitador.
	AccessAttemptsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidalink_share_access_throttled_total",
		Help: "Clinician access attempts rejected by the attempt limiter",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidalink_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
