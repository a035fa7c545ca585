package explanation

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserLimiter keeps one token bucket per user. Each bucket holds burst
// tokens and refills completely over window.
type UserLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*userBucket
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
}

func NewUserLimiter(burst int, window time.Duration) *UserLimiter {
	return &UserLimiter{
		buckets: make(map[string]*userBucket),
		limit:   rate.Every(window / time.Duration(burst)),
		burst:   burst,
		window:  window,
	}
}

// AllowAt reports whether userID may make a request at t, consuming a token
// if so.
func (l *UserLimiter) AllowAt(userID string, t time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.evictIdle(t)
	b, ok := l.buckets[userID]
	if !ok {
		b = &userBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[userID] = b
	}
	b.lastSeen = t
	return b.limiter.AllowN(t, 1)
}

// evictIdle drops the buckets not used for a whole window, at most once per
// window. Such a bucket is full again, the same as a new one.
func (l *UserLimiter) evictIdle(t time.Time) {
	if t.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = t
	for userID, b := range l.buckets {
		if t.Sub(b.lastSeen) >= l.window {
			delete(l.buckets, userID)
		}
	}
}

// Len returns the number of users currently tracked.
func (l *UserLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
