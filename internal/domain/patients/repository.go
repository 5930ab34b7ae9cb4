package patients

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Patient, error)
}
