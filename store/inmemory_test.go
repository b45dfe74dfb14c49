package store

import (
	"context"
	"errors"
	"testing"

	ikerrors "github.com/sweetpotato0/intakekit/errors"
)

func TestInMemoryStoreRoundtrip(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	session := &Session{
		ID:         "sess-1",
		IntakeText: "a scheduling service for clinics",
		Answers:    map[string]any{"B002": "reduce no-shows"},
	}
	if err := s.Put(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IntakeText != session.IntakeText {
		t.Fatalf("intake text %q, want %q", got.IntakeText, session.IntakeText)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not stamped")
	}

	// Returned sessions are copies; mutating one must not leak back.
	got.Answers["B003"] = "healthcare"
	again, err := s.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, leaked := again.Answers["B003"]; leaked {
		t.Fatalf("mutation of a returned session leaked into the store")
	}
}

func TestInMemoryStoreNotFound(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ikerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ikerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if err := s.Put(ctx, nil); !errors.Is(err, ikerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil session, got %v", err)
	}
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, &Session{ID: "sess-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "sess-1"); !errors.Is(err, ikerrors.ErrNotFound) {
		t.Fatalf("session survived deletion")
	}
}

func TestInMemoryCache(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("empty cache must miss cleanly, hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("expected hit, hit=%v err=%v", hit, err)
	}
	if string(value) != "v" {
		t.Fatalf("value %q, want v", value)
	}

	// Returned slices are copies.
	value[0] = 'x'
	value, _, _ = c.Get(ctx, "k")
	if string(value) != "v" {
		t.Fatalf("cache entry mutated through a returned slice")
	}
}

func TestHashKeyStable(t *testing.T) {
	a := HashKey("intake text|15")
	b := HashKey("intake text|15")
	if a != b {
		t.Fatalf("hash keys differ for identical input")
	}
	if a == HashKey("intake text|10") {
		t.Fatalf("hash key ignores input differences")
	}
	if len(a) != 32 {
		t.Fatalf("expected a 32 character hex digest, got %q", a)
	}
}
