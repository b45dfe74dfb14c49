// Package store persists intake sessions and caches analysis results.
// The selection pipeline reads answers from a SessionStore and never
// writes them; writing belongs to whatever collects the answers.
package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Session is the state of one requirements gathering session.
type Session struct {
	ID          string         `json:"id"`
	IntakeText  string         `json:"intake_text"`
	Answers     map[string]any `json:"answers"`
	SelectedIDs []string       `json:"selected_ids"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SessionStore persists sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// Cache stores serialized computation results keyed by content hash.
// A miss is (nil, false, nil), never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// HashKey derives a stable cache key from intake text.
func HashKey(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
