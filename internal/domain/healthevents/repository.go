package healthevents

import "context"

type Repository interface {
	// GetByIDs devuelve solo los eventos que existen (con sus documentos), sin orden garantizado.
	GetByIDs(ctx context.Context, ids []string) ([]HealthEvent, error)
}
