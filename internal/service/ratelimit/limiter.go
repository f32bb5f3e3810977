// Package ratelimit keeps one token bucket per key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleAfter = 10 * time.Minute

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter hands every key its own bucket of burst tokens refilled at perSec.
type Limiter struct {
	mu      sync.Mutex
	m       map[string]*entry
	perSec  rate.Limit
	burst   int
	maxKeys int
	now     func() time.Time
}

func New(burst int, perSec float64) *Limiter {
	return &Limiter{
		m:       make(map[string]*entry),
		perSec:  rate.Limit(perSec),
		burst:   burst,
		maxKeys: 10000,
		now:     time.Now,
	}
}

// Allow consumes one token for key if one is available.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.m[key]
	if !ok {
		if len(l.m) >= l.maxKeys {
			l.dropIdle(now)
		}
		e = &entry{lim: rate.NewLimiter(l.perSec, l.burst)}
		l.m[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1)
}

// dropIdle forgets keys unseen for idleAfter; their buckets are full again by then.
func (l *Limiter) dropIdle(now time.Time) {
	for k, e := range l.m {
		if now.Sub(e.seen) > idleAfter {
			delete(l.m, k)
		}
	}
}
