package patients

import "time"

// Patient es el perfil público del paciente: sin email, CPF ni hash de password.
type Patient struct {
	ID       string
	FullName string

	BirthDate *time.Time
	Gender    string
	BloodType string

	Allergies         []string
	MedicalConditions []string

	EmergencyContactName  string
	EmergencyContactPhone string
}
