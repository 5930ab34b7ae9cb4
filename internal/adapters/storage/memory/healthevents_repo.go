package memory

import (
	"context"
	"sync"

	"vidalink/internal/domain/healthevents"
)

// HealthEventRepo es de solo lectura para el dominio; Put/Delete existen para
// sembrar datos en dev y tests (la escritura real la hace el backend principal).
type HealthEventRepo struct {
	mu   sync.RWMutex
	byID map[string]healthevents.HealthEvent
}

func NewHealthEventRepo() *HealthEventRepo {
	return &HealthEventRepo{byID: make(map[string]healthevents.HealthEvent)}
}

func (r *HealthEventRepo) Put(e healthevents.HealthEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.ID] = e
}

func (r *HealthEventRepo) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *HealthEventRepo) GetByIDs(ctx context.Context, ids []string) ([]healthevents.HealthEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]healthevents.HealthEvent, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.byID[id]; ok {
			e.Documents = append([]healthevents.Document(nil), e.Documents...)
			out = append(out, e)
		}
	}
	return out, nil
}
