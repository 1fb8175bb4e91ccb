package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitGate is the process-wide rate-limit clock shared by every worker.
//
// When any request observes a rate-limit signal the gate is suspended until
// the reset time, and every subsequent Wait blocks until then. This keeps one
// worker from tripping the limit while the others immediately trip it again.
type RateLimitGate struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	until     time.Time
	now       func() time.Time
}

func NewRateLimitGate() *RateLimitGate {
	return &RateLimitGate{
		remaining: -1, // unknown until the first response
		now:       time.Now,
	}
}

// Remaining returns the last observed X-RateLimit-Remaining, or -1 if unknown.
func (g *RateLimitGate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining
}

// SuspendedUntil returns the time before which Wait blocks.
func (g *RateLimitGate) SuspendedUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.until
}

// Wait blocks while the gate is suspended. It returns ctx.Err() if the context
// ends first.
func (g *RateLimitGate) Wait(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("Wait: nil context")
	}
	if g == nil {
		return fmt.Errorf("Wait: nil RateLimitGate")
	}
	if g.now == nil {
		return fmt.Errorf("Wait: RateLimitGate.now is nil (use NewRateLimitGate)")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.mu.Lock()
		now := g.now()
		until := g.until
		g.mu.Unlock()

		if !now.Before(until) {
			return nil
		}

		// Re-check after the timer: another worker may have extended the suspension.
		timer := time.NewTimer(until.Sub(now))
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Suspend blocks new requests until the given time. A suspension is only ever
// extended, never shortened. It reports whether the suspension changed.
func (g *RateLimitGate) Suspend(until time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !until.After(g.until) {
		return false
	}
	g.until = until
	return true
}

// Observe records the rate-limit headers of a response. An exhausted primary
// budget suspends the gate until its reset.
func (g *RateLimitGate) Observe(resp *http.Response) {
	if g == nil || resp == nil || g.now == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil && val >= 0 {
			g.remaining = val
		}
	}

	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			g.reset = time.Unix(val, 0)
		}
	}

	if g.remaining == 0 && g.reset.After(g.now()) && g.reset.After(g.until) {
		g.until = g.reset
	}
}

// resetFromHeaders extracts the time a rate limit lifts from a response. It
// prefers Retry-After (secondary limits), then X-RateLimit-Reset.
func resetFromHeaders(h http.Header, now time.Time) (time.Time, bool) {
	if h == nil {
		return time.Time{}, false
	}
	if retryAfter := h.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return now.Add(time.Duration(seconds) * time.Second), true
		}
	}
	if reset := h.Get("X-RateLimit-Reset"); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil && val > 0 {
			return time.Unix(val, 0), true
		}
	}
	return time.Time{}, false
}
