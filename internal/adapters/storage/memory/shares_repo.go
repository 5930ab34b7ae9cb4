package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vidalink/internal/domain/shares"
)

type shareRepo struct {
	mu      sync.RWMutex
	byID    map[string]shares.ShareToken
	idByTok map[string]string

	// audit recibe los GRANTED de ConsumeAccess bajo el lock del token.
	audit shares.AuditLog
}

func NewShareRepo(audit shares.AuditLog) shares.Store {
	return &shareRepo{
		byID:    make(map[string]shares.ShareToken),
		idByTok: make(map[string]string),
		audit:   audit,
	}
}

func (r *shareRepo) Create(ctx context.Context, t shares.ShareToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("share id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("share already exists")
	}
	if _, taken := r.idByTok[t.Token]; taken {
		return shares.ErrTokenTaken
	}

	r.byID[t.ID] = clone(t)
	r.idByTok[t.Token] = t.ID
	return nil
}

func (r *shareRepo) GetByID(ctx context.Context, id string) (shares.ShareToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return shares.ShareToken{}, shares.ErrNotFound
	}
	return clone(t), nil
}

func (r *shareRepo) GetByToken(ctx context.Context, token string) (shares.ShareToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByTok[token]
	if !ok {
		return shares.ShareToken{}, shares.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *shareRepo) ListByOwner(ctx context.Context, ownerID string) ([]shares.ShareToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shares.ShareToken, 0)
	for _, t := range r.byID {
		if t.OwnerID == ownerID {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ConsumeAccess hace check + auditoría + incremento bajo el mismo lock
// (equivalente a la transacción de Postgres). Si el append falla no se incrementa.
func (r *shareRepo) ConsumeAccess(ctx context.Context, id string, now time.Time, grant shares.AccessLogEntry) (shares.ShareToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return shares.ShareToken{}, shares.ErrNotFound
	}
	if !t.IsActive || !now.Before(t.ExpiresAt) || t.AccessCount >= t.MaxAccess {
		return shares.ShareToken{}, shares.ErrConditionFailed
	}
	if err := r.audit.Append(ctx, grant); err != nil {
		return shares.ShareToken{}, err
	}

	t.AccessCount++
	at := now
	t.LastAccessedAt = &at
	t.UpdatedAt = now
	r.byID[id] = t
	return clone(t), nil
}

func (r *shareRepo) Deactivate(ctx context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return shares.ErrNotFound
	}
	if !t.IsActive {
		return nil
	}
	t.IsActive = false
	at := now
	t.RevokedAt = &at
	t.UpdatedAt = now
	r.byID[id] = t
	return nil
}

// clone evita que el caller comparta el slice de RecordIDs con el mapa.
func clone(t shares.ShareToken) shares.ShareToken {
	t.RecordIDs = append([]string(nil), t.RecordIDs...)
	return t
}
