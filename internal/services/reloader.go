package services

import (
	"context"
	"sync"
)

// Reloader serializes tenant switches. Every switch bumps a generation,
// cancels the previous load's context, and any result carrying a stale
// generation is discarded by the caller. This closes the race where a slow
// load for the previous tenant lands after the next tenant's data.
type Reloader struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewReloader() *Reloader {
	return &Reloader{}
}

// Begin starts a new load generation: the previous in-flight load is
// cancelled and a fresh context is derived from parent. The returned
// generation must be passed back to Accept when the load finishes.
func (r *Reloader) Begin(parent context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.gen++
	return ctx, r.gen
}

// Accept reports whether a load started at gen is still current. A false
// return means another switch happened meanwhile and the result must be
// dropped.
func (r *Reloader) Accept(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.gen
}

// Stop cancels any in-flight load without starting a new generation.
func (r *Reloader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
