// Package ratelimit is an in-memory, per-client fixed-window request limiter.
//
// Counters live in process memory: they reset on restart and are not shared
// between instances, so horizontally scaled deployments multiply the
// effective allowed rate.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds the window/limit pair for one limiter instance.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// Result is the outcome of a single Check call.
type Result struct {
	Allowed   bool `json:"allowed"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	// ResetAt is the epoch-millisecond timestamp when the current window expires.
	ResetAt int64 `json:"reset_at"`
}

// Limiter tracks request timestamps per client identifier and admits a
// request while fewer than MaxRequests timestamps fall inside the window.
// The trim is lazy: old entries are discarded on each Check, which can admit
// short bursts above the nominal rate at window boundaries. That behavior is
// intentional and kept.
type Limiter struct {
	mu   sync.Mutex
	cfg  Config
	hits map[string][]int64

	// now is swappable in tests
	now func() time.Time
}

func New(cfg Config) *Limiter {
	return &Limiter{
		cfg:  cfg,
		hits: make(map[string][]int64),
		now:  time.Now,
	}
}

// Check records and admits a request for identifier, or rejects it without
// recording when the window is full.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UnixMilli()
	windowStart := now - l.cfg.Window.Milliseconds()

	retained := trim(l.hits[identifier], windowStart)

	if len(retained) < l.cfg.MaxRequests {
		retained = append(retained, now)
		l.hits[identifier] = retained
		return Result{
			Allowed:   true,
			Limit:     l.cfg.MaxRequests,
			Remaining: l.cfg.MaxRequests - len(retained),
			ResetAt:   windowStart + l.cfg.Window.Milliseconds(),
		}
	}

	l.hits[identifier] = retained
	return Result{
		Allowed:   false,
		Limit:     l.cfg.MaxRequests,
		Remaining: 0,
		ResetAt:   windowStart + l.cfg.Window.Milliseconds(),
	}
}

// Cleanup re-trims every identifier against the current time and drops
// identifiers whose lists become empty. Purely a memory bound; Check results
// are unaffected.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().UnixMilli() - l.cfg.Window.Milliseconds()
	for id, stamps := range l.hits {
		retained := trim(stamps, windowStart)
		if len(retained) == 0 {
			delete(l.hits, id)
			continue
		}
		l.hits[id] = retained
	}
}

// trim keeps only timestamps newer than windowStart.
func trim(stamps []int64, windowStart int64) []int64 {
	out := stamps[:0]
	for _, ts := range stamps {
		if ts > windowStart {
			out = append(out, ts)
		}
	}
	return out
}
