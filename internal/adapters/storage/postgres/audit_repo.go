package postgres

import (
	"context"
	"database/sql"

	"vidalink/internal/domain/shares"
)

// AuditRepo solo inserta; el trigger share_*_append_only rechaza UPDATE/DELETE.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Append(ctx context.Context, e shares.AccessLogEntry) error {
	return insertAccessLog(ctx, r.db, e)
}

// AppendUnmatched escribe la fila DENIED_NOT_FOUND y el intento en una sola transacción.
func (r *AuditRepo) AppendUnmatched(ctx context.Context, a shares.UnmatchedAttempt) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertAccessLog(ctx, tx, a.LogEntry()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO share_unmatched_attempts (
				id, attempted_token, attempted_at,
				accessor_ip, accessor_user_agent
			) VALUES ($1,$2,$3,$4,$5)
		`,
			a.ID,
			a.AttemptedToken,
			a.AttemptedAt,
			toNullString(a.AccessorIP),
			toNullString(a.AccessorUserAgent),
		)
		return err
	})
}

// share_token_id queda NULL solo para DENIED_NOT_FOUND (lo exige un CHECK).
func insertAccessLog(ctx context.Context, q dbtx, e shares.AccessLogEntry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO share_access_log (
			id, share_token_id, accessed_at,
			accessor_ip, accessor_user_agent, outcome
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		toNullString(e.ShareTokenID),
		e.AccessedAt,
		toNullString(e.AccessorIP),
		toNullString(e.AccessorUserAgent),
		string(e.Outcome),
	)
	return err
}

func (r *AuditRepo) ListByShare(ctx context.Context, shareTokenID string) ([]shares.AccessLogEntry, error) {
	if !isUUID(shareTokenID) {
		return []shares.AccessLogEntry{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, share_token_id, accessed_at, accessor_ip, accessor_user_agent, outcome
		FROM share_access_log
		WHERE share_token_id = $1
		ORDER BY accessed_at ASC, id ASC
	`, shareTokenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shares.AccessLogEntry, 0)
	for rows.Next() {
		var (
			e       shares.AccessLogEntry
			ip, ua  sql.NullString
			outcome string
		)
		if err := rows.Scan(&e.ID, &e.ShareTokenID, &e.AccessedAt, &ip, &ua, &outcome); err != nil {
			return nil, err
		}
		e.AccessorIP = ip.String
		e.AccessorUserAgent = ua.String
		e.Outcome = shares.Outcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}
