// Package ratelimit implements a sliding-window request throttle. It never
// blocks or queues: a denied check reports how long until admission
// resumes, and the caller decides whether to wait or fail fast.
package ratelimit

import (
	"sync"
	"time"
)

// Stats describes one client's current window usage.
type Stats struct {
	CurrentRequests int           `json:"current_requests"`
	MaxRequests     int           `json:"max_requests"`
	Remaining       int           `json:"remaining"`
	Window          time.Duration `json:"window"`
}

// Limiter admits at most maxRequests per sliding window per client
// identity. Safe for concurrent use.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time

	now func() time.Time // injectable for tests
}

// New creates a limiter allowing maxRequests per window.
func New(maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Check records an admission attempt for clientID. When denied, retryAfter
// is the time until the oldest admission slides out of the window; it is
// always positive on denial.
func (l *Limiter) Check(clientID string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(clientID, now)

	if len(recent) >= l.maxRequests {
		oldest := recent[0]
		retryAfter = oldest.Add(l.window).Sub(now)
		if retryAfter <= 0 {
			retryAfter = time.Second
		}
		return false, retryAfter
	}

	l.requests[clientID] = append(recent, now)
	return true, 0
}

// Reset clears the window for one client.
func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.requests, clientID)
}

// Stats reports current usage for one client without recording an
// admission.
func (l *Limiter) Stats(clientID string) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(clientID, l.now())
	return Stats{
		CurrentRequests: len(recent),
		MaxRequests:     l.maxRequests,
		Remaining:       max(0, l.maxRequests-len(recent)),
		Window:          l.window,
	}
}

// prune drops admissions older than the window. Caller holds the lock.
func (l *Limiter) prune(clientID string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	var recent []time.Time
	for _, t := range l.requests[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	l.requests[clientID] = recent
	return recent
}
