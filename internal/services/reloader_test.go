package services

import (
	"context"
	"testing"
)

func TestReloaderDiscardsStaleGeneration(t *testing.T) {
	r := NewReloader()

	ctx1, gen1 := r.Begin(context.Background())
	_, gen2 := r.Begin(context.Background())

	// The older load's context is cancelled and its result is rejected.
	select {
	case <-ctx1.Done():
	default:
		t.Fatalf("first generation context should be cancelled")
	}
	if r.Accept(gen1) {
		t.Fatalf("stale generation must be rejected")
	}
	if !r.Accept(gen2) {
		t.Fatalf("current generation must be accepted")
	}
}

func TestReloaderStop(t *testing.T) {
	r := NewReloader()
	ctx, gen := r.Begin(context.Background())
	r.Stop()

	select {
	case <-ctx.Done():
	default:
		t.Fatalf("stop must cancel the in-flight load")
	}
	// Stop does not advance the generation.
	if !r.Accept(gen) {
		t.Fatalf("stop must not invalidate the generation")
	}
}
