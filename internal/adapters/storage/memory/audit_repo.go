package memory

import (
	"context"
	"errors"
	"sync"

	"vidalink/internal/domain/shares"
)

// auditRepo es append-only: no expone update ni delete.
type auditRepo struct {
	mu        sync.RWMutex
	entries   []shares.AccessLogEntry
	unmatched []shares.UnmatchedAttempt
}

func NewAuditRepo() shares.AuditLog {
	return &auditRepo{}
}

func (r *auditRepo) Append(ctx context.Context, e shares.AccessLogEntry) error {
	if e.ID == "" || e.ShareTokenID == "" {
		return errors.New("access log entry id and share id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRepo) AppendUnmatched(ctx context.Context, a shares.UnmatchedAttempt) error {
	if a.ID == "" {
		return errors.New("unmatched attempt id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, a.LogEntry())
	r.unmatched = append(r.unmatched, a)
	return nil
}

// ListByShare devuelve en orden de inserción (== orden cronológico).
func (r *auditRepo) ListByShare(ctx context.Context, shareTokenID string) ([]shares.AccessLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shares.AccessLogEntry, 0)
	if shareTokenID == "" {
		return out, nil
	}
	for _, e := range r.entries {
		if e.ShareTokenID == shareTokenID {
			out = append(out, e)
		}
	}
	return out, nil
}
