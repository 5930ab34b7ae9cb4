package middleware

import (
	"net"
	"net/http"

	"vidalink/internal/platform/logger"
	"vidalink/internal/platform/metrics"
	"vidalink/internal/ports/ratelimit"
)

// AttemptLimit frena la enumeración de tokens por IP en las rutas del médico.
// Si el limiter falla se deja pasar el request (fail open) y se loguea.
func AttemptLimit(limiter ratelimit.AttemptLimiter, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "share-access:" + clientIP(r)

			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Error("attempt limiter failed", map[string]any{"err": err})
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.AccessAttemptsThrottled.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many attempts"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP asume chimw.RealIP antes en la cadena.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
