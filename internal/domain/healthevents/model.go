package healthevents

import "time"

// HealthEvent es un evento de salud del paciente (examen, consulta, vacuna...).
type HealthEvent struct {
	ID      string
	OwnerID string

	Type        EventType
	Title       string
	Description string
	EventDate   time.Time

	DoctorName  string
	Institution string
	Location    string
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time

	Documents []Document
}

// Document es un archivo adjunto a un evento. FilePath es la key en el storage.
type Document struct {
	ID            string
	HealthEventID string
	OwnerID       string

	OriginalName string
	FilePath     string
	FileSize     int64
	MimeType     string
	FileType     FileType

	AISummary        string
	ProcessingStatus ProcessingStatus

	CreatedAt time.Time
}
