package ratelimit

import (
	"testing"
	"time"
)

func newTestLimiter(maxRequests int, window time.Duration) (*Limiter, *time.Time) {
	l := New(maxRequests, window)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiterAdmitsUpToMax(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, retryAfter := l.Check("client")
		if !allowed {
			t.Fatalf("request %d denied within limit", i+1)
		}
		if retryAfter != 0 {
			t.Errorf("request %d retryAfter = %v, want 0", i+1, retryAfter)
		}
	}

	allowed, retryAfter := l.Check("client")
	if allowed {
		t.Fatal("request over limit admitted")
	}
	if retryAfter <= 0 {
		t.Errorf("denied check retryAfter = %v, want > 0", retryAfter)
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	l.Check("client")
	*now = now.Add(30 * time.Second)
	l.Check("client")

	if allowed, _ := l.Check("client"); allowed {
		t.Fatal("third request within window admitted")
	}

	// First admission slides out after its minute elapses.
	*now = now.Add(31 * time.Second)
	if allowed, _ := l.Check("client"); !allowed {
		t.Error("admission did not resume after window slid")
	}
}

func TestLimiterRetryAfterTracksOldest(t *testing.T) {
	l, now := newTestLimiter(1, time.Minute)

	l.Check("client")
	*now = now.Add(20 * time.Second)

	_, retryAfter := l.Check("client")
	if retryAfter != 40*time.Second {
		t.Errorf("retryAfter = %v, want 40s until oldest admission expires", retryAfter)
	}
}

func TestLimiterClientsIsolated(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Check("a")
	if allowed, _ := l.Check("b"); !allowed {
		t.Error("client b throttled by client a's usage")
	}
}

func TestLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Check("client")
	if allowed, _ := l.Check("client"); allowed {
		t.Fatal("second request admitted before reset")
	}

	l.Reset("client")
	if allowed, _ := l.Check("client"); !allowed {
		t.Error("request denied after reset")
	}
}

func TestLimiterStats(t *testing.T) {
	l, now := newTestLimiter(5, time.Minute)

	l.Check("client")
	l.Check("client")

	stats := l.Stats("client")
	if stats.CurrentRequests != 2 || stats.Remaining != 3 {
		t.Errorf("stats = %+v, want 2 used / 3 remaining", stats)
	}

	// Stats does not consume an admission.
	if l.Stats("client").CurrentRequests != 2 {
		t.Error("Stats consumed an admission")
	}

	*now = now.Add(2 * time.Minute)
	if stats := l.Stats("client"); stats.CurrentRequests != 0 {
		t.Errorf("stale admissions still counted: %+v", stats)
	}
}
