package service

import (
	"sync"
	"time"
)

// LoginLimiter throttles credential attempts per key (the client address)
// with a token bucket. It is safe for concurrent use. Idle buckets are
// evicted by a background sweeper until Stop is called.
type LoginLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

const (
	sweepInterval = 5 * time.Minute
	bucketIdleTTL = 10 * time.Minute
)

// NewLoginLimiter allows burst attempts per key, refilling at perMinute
// attempts per minute.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	return newLoginLimiter(float64(perMinute)/60, float64(burst), time.Now)
}

func newLoginLimiter(rate, capacity float64, now func() time.Time) *LoginLimiter {
	l := &LoginLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      now,
		done:     make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether key may make another attempt and consumes one
// token if so.
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*l.rate, l.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Stop ends the background sweeper. It is safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *LoginLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

func (l *LoginLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-bucketIdleTTL)
	for key, b := range l.buckets {
		if b.last.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
