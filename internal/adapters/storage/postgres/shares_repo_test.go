package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"vidalink/internal/domain/shares"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere una base real: VIDALINK_TEST_DATABASE_URL=postgres://...
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("VIDALINK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("VIDALINK_TEST_DATABASE_URL not set")
	}
	db, err := Open(dsn, 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = MigrateUp(db)
	require.NoError(t, err)
	return db
}

func newShare(token string, maxAccess int, now time.Time) shares.ShareToken {
	return shares.ShareToken{
		ID:         uuid.NewString(),
		Token:      token,
		OwnerID:    "owner-" + uuid.NewString(),
		RecordIDs:  []string{uuid.NewString(), uuid.NewString()},
		AccessType: shares.AccessRead,
		DoctorName: "Dra. Silva",
		ExpiresAt:  now.Add(24 * time.Hour),
		MaxAccess:  maxAccess,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func grantEntry(shareID string, now time.Time) shares.AccessLogEntry {
	return shares.AccessLogEntry{
		ID:           uuid.NewString(),
		ShareTokenID: shareID,
		AccessedAt:   now,
		Outcome:      shares.OutcomeGranted,
	}
}

func randomToken(t *testing.T) string {
	t.Helper()
	tok, err := shares.GenerateToken()
	require.NoError(t, err)
	return tok
}

func TestSharesRepo_CreateAndRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewSharesRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s := newShare(randomToken(t), 3, now)
	require.NoError(t, repo.Create(ctx, s))

	byTok, err := repo.GetByToken(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.ID, byTok.ID)
	assert.Equal(t, s.RecordIDs, byTok.RecordIDs)
	assert.Equal(t, "Dra. Silva", byTok.DoctorName)
	assert.Empty(t, byTok.DoctorEmail)

	// mismo token => ErrTokenTaken
	dup := newShare(s.Token, 1, now)
	assert.ErrorIs(t, repo.Create(ctx, dup), shares.ErrTokenTaken)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, shares.ErrNotFound)
	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, shares.ErrNotFound)
}

func TestSharesRepo_ConsumeAccess_IsAtomic(t *testing.T) {
	db := openTestDB(t)
	repo := NewSharesRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := newShare(randomToken(t), 1, now)
	require.NoError(t, repo.Create(ctx, s))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
		failed  int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ConsumeAccess(ctx, s.ID, now, grantEntry(s.ID, now))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				granted++
			} else if assert.ErrorIs(t, err, shares.ErrConditionFailed) {
				failed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	assert.Equal(t, 9, failed)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AccessCount)
	require.NotNil(t, got.LastAccessedAt)

	entries, err := NewAuditRepo(db).ListByShare(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, shares.OutcomeGranted, entries[0].Outcome)
}

func TestSharesRepo_ConsumeAccess_RollsBackWhenAuditFails(t *testing.T) {
	db := openTestDB(t)
	repo := NewSharesRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := newShare(randomToken(t), 1, now)
	require.NoError(t, repo.Create(ctx, s))

	// id no-UUID: el INSERT del log falla dentro de la transacción
	bad := grantEntry(s.ID, now)
	bad.ID = "not-a-uuid"
	_, err := repo.ConsumeAccess(ctx, s.ID, now, bad)
	require.Error(t, err)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AccessCount)
	assert.Nil(t, got.LastAccessedAt)

	_, err = repo.ConsumeAccess(ctx, s.ID, now, grantEntry(s.ID, now))
	require.NoError(t, err)
}

func TestAuditRepo_UnmatchedAttemptWritesNotFoundEntry(t *testing.T) {
	db := openTestDB(t)
	audit := NewAuditRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	id := uuid.NewString()
	require.NoError(t, audit.AppendUnmatched(ctx, shares.UnmatchedAttempt{
		ID:             id,
		AttemptedToken: "ZZZZ9999",
		AttemptedAt:    now,
		AccessorIP:     "10.0.0.9",
	}))

	var (
		outcome string
		shareID sql.NullString
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT outcome, share_token_id FROM share_access_log WHERE id = $1`, id,
	).Scan(&outcome, &shareID))
	assert.Equal(t, string(shares.OutcomeDeniedNotFound), outcome)
	assert.False(t, shareID.Valid)

	var token string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT attempted_token FROM share_unmatched_attempts WHERE id = $1`, id,
	).Scan(&token))
	assert.Equal(t, "ZZZZ9999", token)

	// sin token solo se admite DENIED_NOT_FOUND
	err := audit.Append(ctx, shares.AccessLogEntry{ID: uuid.NewString(), AccessedAt: now, Outcome: shares.OutcomeGranted})
	assert.Error(t, err)
}

func TestSharesRepo_DeactivateBlocksConsume(t *testing.T) {
	db := openTestDB(t)
	repo := NewSharesRepo(db)
	audit := NewAuditRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	s := newShare(randomToken(t), 5, now)
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Deactivate(ctx, s.ID, now))

	_, err := repo.ConsumeAccess(ctx, s.ID, now, grantEntry(s.ID, now))
	assert.ErrorIs(t, err, shares.ErrConditionFailed)

	missing := uuid.NewString()
	_, err = repo.ConsumeAccess(ctx, missing, now, grantEntry(missing, now))
	assert.ErrorIs(t, err, shares.ErrNotFound)

	require.NoError(t, audit.Append(ctx, shares.AccessLogEntry{
		ID:           uuid.NewString(),
		ShareTokenID: s.ID,
		AccessedAt:   now,
		AccessorIP:   "10.0.0.1",
		Outcome:      shares.OutcomeDeniedInactive,
	}))
	entries, err := audit.ListByShare(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, shares.OutcomeDeniedInactive, entries[0].Outcome)

	// append-only
	_, err = db.ExecContext(ctx, `DELETE FROM share_access_log WHERE share_token_id = $1`, s.ID)
	assert.Error(t, err)
}
