package ratelimit

import (
	"sync"
	"time"
)

const (
	sweepEvery = time.Minute
	idleAfter  = 10 * time.Minute
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a per-key token bucket, used to shield the webhook endpoint
// from misbehaving senders. Keys come from client addresses, so idle buckets
// are swept to keep the map bounded on a public endpoint.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*bucket
	lastSweep time.Time
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket), lastSweep: time.Now()}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= sweepEvery {
		l.sweep(now)
	}

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep drops buckets not seen since idleAfter. An idle bucket is always
// full again by the time its key returns, so dropping it changes nothing.
func (l *Limiter) sweep(now time.Time) {
	for key, b := range l.m {
		if now.Sub(b.last) >= idleAfter {
			delete(l.m, key)
		}
	}
	l.lastSweep = now
}
