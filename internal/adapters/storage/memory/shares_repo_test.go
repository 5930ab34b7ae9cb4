package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"vidalink/internal/domain/healthevents"
	"vidalink/internal/domain/shares"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *auditRepo) snapshot() ([]shares.AccessLogEntry, []shares.UnmatchedAttempt) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]shares.AccessLogEntry(nil), r.entries...), append([]shares.UnmatchedAttempt(nil), r.unmatched...)
}

func grantEntry(shareID string, now time.Time) shares.AccessLogEntry {
	return shares.AccessLogEntry{
		ID:           uuid.NewString(),
		ShareTokenID: shareID,
		AccessedAt:   now,
		Outcome:      shares.OutcomeGranted,
	}
}

func newShare(id, token string, maxAccess int, created time.Time) shares.ShareToken {
	return shares.ShareToken{
		ID:         id,
		Token:      token,
		OwnerID:    "p1",
		RecordIDs:  []string{"e1"},
		AccessType: shares.AccessRead,
		ExpiresAt:  created.Add(time.Hour),
		MaxAccess:  maxAccess,
		IsActive:   true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestShareRepo_CreateRejectsTakenToken(t *testing.T) {
	repo := NewShareRepo(NewAuditRepo())
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, newShare("s1", "AAAA1111", 1, now)))
	assert.ErrorIs(t, repo.Create(ctx, newShare("s2", "AAAA1111", 1, now)), shares.ErrTokenTaken)

	_, err := repo.GetByToken(ctx, "BBBB2222")
	assert.ErrorIs(t, err, shares.ErrNotFound)
}

func TestShareRepo_ConsumeAccessIsAtomic(t *testing.T) {
	repo := NewShareRepo(NewAuditRepo())
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newShare("s1", "AAAA1111", 3, now)))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		okRuns int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ConsumeAccess(ctx, "s1", now, grantEntry("s1", now)); err == nil {
				mu.Lock()
				okRuns++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, okRuns)
	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.AccessCount)

	_, err = repo.ConsumeAccess(ctx, "s1", now, grantEntry("s1", now))
	assert.ErrorIs(t, err, shares.ErrConditionFailed)
}

func TestShareRepo_ConsumeAccessRecordsGrantOrNothing(t *testing.T) {
	audit := NewAuditRepo().(*auditRepo)
	repo := NewShareRepo(audit)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newShare("s1", "AAAA1111", 1, now)))

	// una entrada inválida hace fallar el append: el contador no se mueve
	bad := grantEntry("s1", now)
	bad.ID = ""
	_, err := repo.ConsumeAccess(ctx, "s1", now, bad)
	require.Error(t, err)

	got, _ := repo.GetByID(ctx, "s1")
	assert.Equal(t, 0, got.AccessCount)
	assert.Nil(t, got.LastAccessedAt)
	entries, _ := audit.snapshot()
	assert.Empty(t, entries)

	consumed, err := repo.ConsumeAccess(ctx, "s1", now, grantEntry("s1", now))
	require.NoError(t, err)
	assert.Equal(t, 1, consumed.AccessCount)

	entries, _ = audit.snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, shares.OutcomeGranted, entries[0].Outcome)
	assert.Equal(t, "s1", entries[0].ShareTokenID)
}

func TestAuditRepo_UnmatchedAttemptAlsoLogsNotFound(t *testing.T) {
	audit := NewAuditRepo().(*auditRepo)
	now := time.Now()

	require.NoError(t, audit.AppendUnmatched(context.Background(), shares.UnmatchedAttempt{
		ID:             "u1",
		AttemptedToken: "ZZZZ9999",
		AttemptedAt:    now,
		AccessorIP:     "10.0.0.9",
	}))

	entries, unmatched := audit.snapshot()
	require.Len(t, unmatched, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].ID)
	assert.Empty(t, entries[0].ShareTokenID)
	assert.Equal(t, shares.OutcomeDeniedNotFound, entries[0].Outcome)
	assert.Equal(t, "10.0.0.9", entries[0].AccessorIP)

	// no aparece en el log de ningún token
	list, err := audit.ListByShare(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShareRepo_ConsumeAccessHonoursExpiryAndRevocation(t *testing.T) {
	repo := NewShareRepo(NewAuditRepo())
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newShare("s1", "AAAA1111", 5, now)))
	require.NoError(t, repo.Create(ctx, newShare("s2", "BBBB2222", 5, now)))

	_, err := repo.ConsumeAccess(ctx, "s1", now.Add(time.Hour), grantEntry("s1", now))
	assert.ErrorIs(t, err, shares.ErrConditionFailed)

	require.NoError(t, repo.Deactivate(ctx, "s2", now))
	_, err = repo.ConsumeAccess(ctx, "s2", now, grantEntry("s2", now))
	assert.ErrorIs(t, err, shares.ErrConditionFailed)

	assert.ErrorIs(t, repo.Deactivate(ctx, "missing", now), shares.ErrNotFound)
}

func TestShareRepo_ListByOwnerNewestFirstAndIsolated(t *testing.T) {
	repo := NewShareRepo(NewAuditRepo())
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newShare("old", "AAAA1111", 1, now.Add(-time.Hour))))
	require.NoError(t, repo.Create(ctx, newShare("new", "BBBB2222", 1, now)))

	list, err := repo.ListByOwner(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)

	// mutar lo devuelto no toca el store
	list[0].RecordIDs[0] = "hacked"
	again, _ := repo.GetByID(ctx, "new")
	assert.Equal(t, "e1", again.RecordIDs[0])
}

func TestHealthEventRepo_DeletedEventsDisappear(t *testing.T) {
	repo := NewHealthEventRepo()
	repo.Put(healthevents.HealthEvent{ID: "e1", OwnerID: "p1"})
	repo.Put(healthevents.HealthEvent{ID: "e2", OwnerID: "p1"})
	repo.Delete("e1")

	got, err := repo.GetByIDs(context.Background(), []string{"e1", "e2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].ID)
}
