// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP and rate-limit helpers shared across stages.
package httputil

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum wall-clock spacing between calls to an
// external API. The zero Interval disables the gate.
//
// Each agent owns its Limiter, so separate agent instances are rate-limited
// independently. Wait sleeps off the remainder of the interval measured
// from the last Mark; Mark is called after a request completes, so the
// spacing is end-to-start. Now and Sleep are overridable so tests can run
// without real sleeps.
type Limiter struct {
	// Interval is the minimum spacing between completed calls.
	Interval time.Duration

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time

	// Sleep blocks for d or until ctx is done. Nil means a timer-based sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	last time.Time
}

// Wait blocks until the interval since the last Mark has elapsed. It
// returns early with ctx.Err() if the context is cancelled during the wait.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	last := l.last
	l.mu.Unlock()

	if l.Interval <= 0 || last.IsZero() {
		return nil
	}

	remaining := l.Interval - l.now().Sub(last)
	if remaining <= 0 {
		return nil
	}
	return l.sleep(ctx, remaining)
}

// Mark records that a call has just completed. Failed transport attempts
// are not marked; a call that reached the API counts even if its response
// later turns out to be unusable.
func (l *Limiter) Mark() {
	l.mu.Lock()
	l.last = l.now()
	l.mu.Unlock()
}

// Pause sleeps for the full interval, regardless of the last call time.
// Used between retry attempts.
func (l *Limiter) Pause(ctx context.Context) error {
	if l.Interval <= 0 {
		return nil
	}
	return l.sleep(ctx, l.Interval)
}

func (l *Limiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Limiter) sleep(ctx context.Context, d time.Duration) error {
	if l.Sleep != nil {
		return l.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
