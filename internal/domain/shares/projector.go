package shares

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidalink/internal/domain/healthevents"
	"vidalink/internal/domain/patients"
	"vidalink/internal/platform/logger"
)

// RecordResolver resuelve ids a eventos del dueño (omitiendo los borrados).
type RecordResolver interface {
	Resolve(ctx context.Context, ownerID string, ids []string) ([]healthevents.HealthEvent, error)
}

type PatientProfiles interface {
	PublicProfile(ctx context.Context, id string) (patients.Patient, error)
}

// DocumentSigner genera URLs de descarga temporales (la operación de exportación).
type DocumentSigner interface {
	SignDownload(ctx context.Context, doc healthevents.Document) (string, error)
}

// PatientShareView es lo que ve el médico. Con READ no lleva ningún campo de exportación.
type PatientShareView struct {
	Patient   *PatientView  `json:"patient,omitempty"`
	Events    []EventView   `json:"events"`
	ShareInfo ShareInfoView `json:"share_info"`
	Export    *ExportView   `json:"export,omitempty"`
}

type PatientView struct {
	FullName              string   `json:"full_name"`
	BirthDate             string   `json:"birth_date,omitempty"`
	Gender                string   `json:"gender,omitempty"`
	BloodType             string   `json:"blood_type,omitempty"`
	Allergies             []string `json:"allergies"`
	MedicalConditions     []string `json:"medical_conditions"`
	EmergencyContactName  string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string   `json:"emergency_contact_phone,omitempty"`
}

type EventView struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	EventDate   time.Time      `json:"event_date"`
	DoctorName  string         `json:"doctor_name,omitempty"`
	Institution string         `json:"institution,omitempty"`
	Location    string         `json:"location,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Documents   []DocumentView `json:"documents"`
}

type DocumentView struct {
	ID               string    `json:"id"`
	OriginalName     string    `json:"original_name"`
	MimeType         string    `json:"mime_type"`
	FileType         string    `json:"file_type"`
	FileSize         int64     `json:"file_size"`
	AISummary        string    `json:"ai_summary,omitempty"`
	ProcessingStatus string    `json:"processing_status"`
	CreatedAt        time.Time `json:"created_at"`

	// Solo con EXPORT.
	DownloadURL string `json:"download_url,omitempty"`
}

type ShareInfoView struct {
	Token      string     `json:"token"`
	AccessType AccessType `json:"access_type"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

type ExportView struct {
	Formats []string `json:"formats"`
}

type Projector struct {
	records  RecordResolver
	patients PatientProfiles
	signer   DocumentSigner
	log      logger.Logger
}

// NewProjector: signer puede ser nil (sin URLs de descarga, incluso con EXPORT).
func NewProjector(records RecordResolver, profiles PatientProfiles, signer DocumentSigner, log logger.Logger) *Projector {
	if log == nil {
		log = logger.Nop()
	}
	return &Projector{records: records, patients: profiles, signer: signer, log: log}
}

// Project es solo lectura; se puede llamar varias veces para el mismo acceso.
// Un documento que no se puede firmar queda sin download_url: el acceso ya se consumió.
func (p *Projector) Project(ctx context.Context, access AuthorizedAccess) (PatientShareView, error) {
	events, err := p.records.Resolve(ctx, access.OwnerID, access.RecordIDs)
	if err != nil {
		return PatientShareView{}, fmt.Errorf("resolve records: %w", err)
	}

	view := PatientShareView{
		Events: make([]EventView, 0, len(events)),
		ShareInfo: ShareInfoView{
			Token:      access.Token,
			AccessType: access.AccessType,
			ExpiresAt:  access.ExpiresAt,
		},
	}

	profile, err := p.patients.PublicProfile(ctx, access.OwnerID)
	switch {
	case err == nil:
		view.Patient = toPatientView(profile)
	case errors.Is(err, patients.ErrNotFound):
		// perfil borrado: se comparte igual lo que queda
	default:
		return PatientShareView{}, fmt.Errorf("load patient: %w", err)
	}

	for _, e := range events {
		ev := toEventView(e)
		for _, d := range e.Documents {
			dv := toDocumentView(d)
			if access.CanExport() && p.signer != nil {
				url, err := p.ExportURL(ctx, access, d)
				if err != nil {
					p.log.Warn("document download url not signed", map[string]any{
						"event_id":    e.ID,
						"document_id": d.ID,
						"err":         err,
					})
				}
				dv.DownloadURL = url
			}
			ev.Documents = append(ev.Documents, dv)
		}
		view.Events = append(view.Events, ev)
	}

	if access.CanExport() {
		view.Export = &ExportView{Formats: []string{"json", "original"}}
	}
	return view, nil
}

// ExportURL re-chequea el tipo de acceso: la forma de la respuesta no es la frontera de seguridad.
func (p *Projector) ExportURL(ctx context.Context, access AuthorizedAccess, doc healthevents.Document) (string, error) {
	if !access.CanExport() {
		return "", ErrExportNotPermitted
	}
	if p.signer == nil {
		return "", ErrExportNotPermitted
	}
	url, err := p.signer.SignDownload(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("sign document %s: %w", doc.ID, err)
	}
	return url, nil
}

// DocumentURL firma un documento puntual de los registros compartidos.
func (p *Projector) DocumentURL(ctx context.Context, access AuthorizedAccess, documentID string) (string, error) {
	if !access.CanExport() {
		return "", ErrExportNotPermitted
	}
	events, err := p.records.Resolve(ctx, access.OwnerID, access.RecordIDs)
	if err != nil {
		return "", fmt.Errorf("resolve records: %w", err)
	}
	for _, e := range events {
		for _, d := range e.Documents {
			if d.ID == documentID {
				return p.ExportURL(ctx, access, d)
			}
		}
	}
	return "", ErrNotFound
}

func toPatientView(p patients.Patient) *PatientView {
	v := &PatientView{
		FullName:              p.FullName,
		Gender:                p.Gender,
		BloodType:             p.BloodType,
		Allergies:             nonNil(p.Allergies),
		MedicalConditions:     nonNil(p.MedicalConditions),
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
	}
	if p.BirthDate != nil {
		v.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return v
}

func toEventView(e healthevents.HealthEvent) EventView {
	return EventView{
		ID:          e.ID,
		Type:        string(e.Type),
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate,
		DoctorName:  e.DoctorName,
		Institution: e.Institution,
		Location:    e.Location,
		Notes:       e.Notes,
		Documents:   make([]DocumentView, 0, len(e.Documents)),
	}
}

func toDocumentView(d healthevents.Document) DocumentView {
	return DocumentView{
		ID:               d.ID,
		OriginalName:     d.OriginalName,
		MimeType:         d.MimeType,
		FileType:         string(d.FileType),
		FileSize:         d.FileSize,
		AISummary:        d.AISummary,
		ProcessingStatus: string(d.ProcessingStatus),
		CreatedAt:        d.CreatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
