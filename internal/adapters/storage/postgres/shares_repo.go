package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"vidalink/internal/domain/shares"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation       = "23505"
	shareTokenUniqueIndex = "share_tokens_token_key"
)

const shareColumns = `
	id, token, owner_id, record_ids, access_type,
	doctor_name, doctor_email, institution,
	expires_at, max_access, access_count, is_active,
	last_accessed_at, created_at, updated_at, revoked_at`

type SharesRepo struct {
	db *sql.DB
}

func NewSharesRepo(db *sql.DB) *SharesRepo {
	return &SharesRepo{db: db}
}

func (r *SharesRepo) Create(ctx context.Context, t shares.ShareToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO share_tokens (`+shareColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		t.ID,
		t.Token,
		t.OwnerID,
		t.RecordIDs,
		string(t.AccessType),
		toNullString(t.DoctorName),
		toNullString(t.DoctorEmail),
		toNullString(t.Institution),
		t.ExpiresAt,
		t.MaxAccess,
		t.AccessCount,
		t.IsActive,
		toNullTime(t.LastAccessedAt),
		t.CreatedAt,
		t.UpdatedAt,
		toNullTime(t.RevokedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == shareTokenUniqueIndex {
			return shares.ErrTokenTaken
		}
		return err
	}
	return nil
}

func (r *SharesRepo) GetByID(ctx context.Context, id string) (shares.ShareToken, error) {
	id = strings.TrimSpace(id)
	if !isUUID(id) {
		return shares.ShareToken{}, shares.ErrNotFound
	}
	return getShare(ctx, r.db, `SELECT `+shareColumns+` FROM share_tokens WHERE id = $1`, id)
}

func (r *SharesRepo) GetByToken(ctx context.Context, token string) (shares.ShareToken, error) {
	return getShare(ctx, r.db, `SELECT `+shareColumns+` FROM share_tokens WHERE token = $1`, token)
}

func (r *SharesRepo) ListByOwner(ctx context.Context, ownerID string) ([]shares.ShareToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shareColumns+`
		FROM share_tokens
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shares.ShareToken, 0)
	for rows.Next() {
		t, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ConsumeAccess es un único UPDATE condicional: dos validaciones concurrentes
// nunca pueden pasar ambas el chequeo de access_count < max_access.
// El INSERT del GRANTED va en la misma transacción que el incremento.
func (r *SharesRepo) ConsumeAccess(ctx context.Context, id string, now time.Time, grant shares.AccessLogEntry) (shares.ShareToken, error) {
	var consumed shares.ShareToken
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		t, err := getShare(ctx, tx, `
			UPDATE share_tokens
			SET
				access_count = access_count + 1,
				last_accessed_at = $2,
				updated_at = $2
			WHERE id = $1
			  AND is_active
			  AND expires_at > $2
			  AND access_count < max_access
			RETURNING `+shareColumns,
			id, now,
		)
		if err != nil {
			return err
		}
		if err := insertAccessLog(ctx, tx, grant); err != nil {
			return err
		}
		consumed = t
		return nil
	})
	if errors.Is(err, shares.ErrNotFound) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM share_tokens WHERE id = $1)`, id).Scan(&exists); err != nil {
			return shares.ShareToken{}, err
		}
		if !exists {
			return shares.ShareToken{}, shares.ErrNotFound
		}
		return shares.ShareToken{}, shares.ErrConditionFailed
	}
	if err != nil {
		return shares.ShareToken{}, err
	}
	return consumed, nil
}

func (r *SharesRepo) Deactivate(ctx context.Context, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE share_tokens
		SET
			is_active = FALSE,
			revoked_at = COALESCE(revoked_at, $2),
			updated_at = $2
		WHERE id = $1
	`, id, now)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return shares.ErrNotFound
	}
	return nil
}

func getShare(ctx context.Context, q dbtx, query string, args ...any) (shares.ShareToken, error) {
	t, err := scanShare(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shares.ShareToken{}, shares.ErrNotFound
		}
		return shares.ShareToken{}, err
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (shares.ShareToken, error) {
	var (
		t            shares.ShareToken
		accessType   string
		doctorName   sql.NullString
		doctorEmail  sql.NullString
		institution  sql.NullString
		lastAccessed sql.NullTime
		revokedAt    sql.NullTime
	)

	if err := row.Scan(
		&t.ID,
		&t.Token,
		&t.OwnerID,
		textArray(&t.RecordIDs),
		&accessType,
		&doctorName,
		&doctorEmail,
		&institution,
		&t.ExpiresAt,
		&t.MaxAccess,
		&t.AccessCount,
		&t.IsActive,
		&lastAccessed,
		&t.CreatedAt,
		&t.UpdatedAt,
		&revokedAt,
	); err != nil {
		return shares.ShareToken{}, err
	}

	t.AccessType = shares.AccessType(accessType)
	t.DoctorName = doctorName.String
	t.DoctorEmail = doctorEmail.String
	t.Institution = institution.String
	t.LastAccessedAt = fromNullTime(lastAccessed)
	t.RevokedAt = fromNullTime(revokedAt)
	return t, nil
}
