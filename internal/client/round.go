package client

import (
	"context"
	"sync"
)

// RoundTracker gates round-start completions so only the latest request
// may initialize the game. Starting a new request cancels the previous one.
type RoundTracker struct {
	mu      sync.Mutex
	token   uint64
	cancel  context.CancelFunc
	loading bool
}

// Begin cancels any in-flight request and returns a context and token for
// the new one.
func (t *RoundTracker) Begin(parent context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.token++
	t.loading = true
	return ctx, t.token
}

// Accept reports whether token belongs to the latest request. A current
// token clears the loading flag; a stale one changes nothing.
func (t *RoundTracker) Accept(token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.token {
		return false
	}
	t.loading = false
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	return true
}

// Loading reports whether a request is in flight.
func (t *RoundTracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Cancel aborts the in-flight request. Its completion will be rejected.
func (t *RoundTracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.token++
	t.loading = false
}
