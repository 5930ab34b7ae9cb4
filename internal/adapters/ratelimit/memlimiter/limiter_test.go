package memlimiter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_BlocksAfterLimitAndResetsPerWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "ip-1")
	require.NoError(t, err)
	assert.False(t, ok, "third attempt in the window must be blocked")

	// otra clave tiene su propio cupo
	ok, _ = l.Allow(ctx, "ip-2")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = l.Allow(ctx, "ip-1")
	assert.True(t, ok, "new window resets the count")
}

func TestLimiter_SweepsAtMostOncePerPeriod(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	now := start
	l := New(5, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "first")
	require.Equal(t, start, l.lastSweep)

	// muchas claves nuevas dentro del período: ningún barrido extra
	now = start.Add(30 * time.Second)
	for i := 0; i < 1000; i++ {
		_, _ = l.Allow(ctx, fmt.Sprintf("ip-%d", i))
	}
	assert.Equal(t, start, l.lastSweep)
	assert.Len(t, l.windows, 1001)

	// vencido el período, la próxima clave nueva barre lo vencido
	now = start.Add(time.Minute)
	_, _ = l.Allow(ctx, "late")
	assert.Equal(t, now, l.lastSweep)
	assert.Len(t, l.windows, 1001, "only the first window expired")
	_, stale := l.windows["first"]
	assert.False(t, stale)
}
