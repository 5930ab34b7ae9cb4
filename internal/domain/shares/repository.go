package shares

import (
	"context"
	"time"
)

type Store interface {
	// Create devuelve ErrTokenTaken si el string del token ya existe.
	Create(ctx context.Context, t ShareToken) error
	GetByID(ctx context.Context, id string) (ShareToken, error)
	GetByToken(ctx context.Context, token string) (ShareToken, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ShareToken, error)

	// ConsumeAccess incrementa access_count en una sola escritura condicional
	// (activo, no expirado en now, access_count < max_access) y persiste grant
	// en el mismo paso: o quedan ambos o ninguno.
	// Si la condición no se cumple devuelve ErrConditionFailed sin tocar el registro.
	ConsumeAccess(ctx context.Context, id string, now time.Time, grant AccessLogEntry) (ShareToken, error)

	// Deactivate marca is_active=false. No borra nada.
	Deactivate(ctx context.Context, id string, now time.Time) error
}

// AuditLog es insert-only: no hay update ni delete.
type AuditLog interface {
	Append(ctx context.Context, e AccessLogEntry) error
	// AppendUnmatched guarda el intento y su AccessLogEntry DENIED_NOT_FOUND
	// (sin share_token_id, mismo id que el intento).
	AppendUnmatched(ctx context.Context, a UnmatchedAttempt) error
	ListByShare(ctx context.Context, shareTokenID string) ([]AccessLogEntry, error)
}
