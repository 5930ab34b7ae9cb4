package memlimiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Limiter es el fallback en memoria (una sola réplica, dev y tests).
type Limiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window

	// lastSweep acota el barrido a una vez por período.
	lastSweep time.Time

	now func() time.Time
}

func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		if now.Sub(l.lastSweep) >= l.period {
			l.sweep(now)
		}
		l.windows[key] = &window{start: now, count: 1}
		return true, nil
	}

	w.count++
	return w.count <= l.limit, nil
}

// sweep descarta ventanas vencidas para que el mapa no crezca sin límite.
func (l *Limiter) sweep(now time.Time) {
	l.lastSweep = now
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, k)
		}
	}
}
