package memory

import (
	"context"
	"sync"

	"vidalink/internal/domain/patients"
)

type PatientRepo struct {
	mu   sync.RWMutex
	byID map[string]patients.Patient
}

func NewPatientRepo() *PatientRepo {
	return &PatientRepo{byID: make(map[string]patients.Patient)}
}

func (r *PatientRepo) Put(p patients.Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
}

func (r *PatientRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}
