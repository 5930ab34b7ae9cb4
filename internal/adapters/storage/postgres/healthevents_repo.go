package postgres

import (
	"context"
	"database/sql"

	"vidalink/internal/domain/healthevents"
)

// HealthEventsRepo lee las tablas que escribe el backend principal.
type HealthEventsRepo struct {
	db *sql.DB
}

func NewHealthEventsRepo(db *sql.DB) *HealthEventsRepo {
	return &HealthEventsRepo{db: db}
}

func (r *HealthEventsRepo) GetByIDs(ctx context.Context, ids []string) ([]healthevents.HealthEvent, error) {
	ids = uuidsOnly(ids)
	if len(ids) == 0 {
		return []healthevents.HealthEvent{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id, type, title, description, event_date,
			doctor_name, institution, location, notes,
			created_at, updated_at
		FROM health_events
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthevents.HealthEvent, 0, len(ids))
	index := make(map[string]int, len(ids))
	for rows.Next() {
		var (
			e                                  healthevents.HealthEvent
			typ                                string
			desc, doctor, inst, location, note sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.OwnerID, &typ, &e.Title, &desc, &e.EventDate,
			&doctor, &inst, &location, &note,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Type = healthevents.EventType(typ)
		e.Description = desc.String
		e.DoctorName = doctor.String
		e.Institution = inst.String
		e.Location = location.String
		e.Notes = note.String
		e.Documents = []healthevents.Document{}

		index[e.ID] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.attachDocuments(ctx, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HealthEventsRepo) attachDocuments(ctx context.Context, events []healthevents.HealthEvent, index map[string]int) error {
	eventIDs := make([]string, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, health_event_id, user_id, original_name, file_path,
			file_size, mime_type, file_type, ai_summary, processing_status,
			created_at
		FROM document_uploads
		WHERE health_event_id = ANY($1::uuid[])
		ORDER BY created_at ASC
	`, eventIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d                healthevents.Document
			fileType, status string
			summary          sql.NullString
		)
		if err := rows.Scan(
			&d.ID, &d.HealthEventID, &d.OwnerID, &d.OriginalName, &d.FilePath,
			&d.FileSize, &d.MimeType, &fileType, &summary, &status,
			&d.CreatedAt,
		); err != nil {
			return err
		}
		d.FileType = healthevents.FileType(fileType)
		d.ProcessingStatus = healthevents.ProcessingStatus(status)
		d.AISummary = summary.String

		if i, ok := index[d.HealthEventID]; ok {
			events[i].Documents = append(events[i].Documents, d)
		}
	}
	return rows.Err()
}
