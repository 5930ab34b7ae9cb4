package postgres

import (
	"context"
	"database/sql"
	"errors"

	"vidalink/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	if !isUUID(id) {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, full_name, birth_date, gender, blood_type,
			allergies, medical_conditions,
			emergency_contact_name, emergency_contact_phone
		FROM users
		WHERE id = $1
	`, id)

	var (
		p                              patients.Patient
		birth                          sql.NullTime
		gender, blood, ecName, ecPhone sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.FullName, &birth, &gender, &blood,
		textArray(&p.Allergies), textArray(&p.MedicalConditions),
		&ecName, &ecPhone,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}

	p.BirthDate = fromNullTime(birth)
	p.Gender = gender.String
	p.BloodType = blood.String
	p.EmergencyContactName = ecName.String
	p.EmergencyContactPhone = ecPhone.String
	return p, nil
}
