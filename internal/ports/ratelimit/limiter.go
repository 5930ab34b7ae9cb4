package ratelimit

import "context"

// AttemptLimiter cuenta intentos por clave dentro de una ventana fija.
// Allow devuelve false cuando la clave ya agotó su cupo.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
