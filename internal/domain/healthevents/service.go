package healthevents

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotOwned     = errors.New("event not owned by user")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VerifyOwnership exige que todos los ids existan y pertenezcan a ownerID.
// Un id inexistente cuenta como no-propio (no distinguimos para no filtrar ids ajenos).
func (s *Service) VerifyOwnership(ctx context.Context, ownerID string, ids []string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || len(ids) == 0 {
		return ErrInvalidInput
	}

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	owned := make(map[string]struct{}, len(found))
	for _, e := range found {
		if e.OwnerID == ownerID {
			owned[e.ID] = struct{}{}
		}
	}
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return ErrNotOwned
		}
	}
	return nil
}

// Resolve devuelve los eventos de ownerID en el orden de ids.
// Los que ya no existen (o cambiaron de dueño) se omiten sin error.
func (s *Service) Resolve(ctx context.Context, ownerID string, ids []string) ([]HealthEvent, error) {
	if len(ids) == 0 {
		return []HealthEvent{}, nil
	}

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]HealthEvent, len(found))
	for _, e := range found {
		if e.OwnerID != ownerID {
			continue
		}
		byID[e.ID] = e
	}

	out := make([]HealthEvent, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}
