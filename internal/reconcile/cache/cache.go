// Package cache keeps the client's last known copy of the collection so a
// new session can paint before the first fetch returns.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"linkshelf/pkg/platform/sentinel"
	"linkshelf/pkg/types"
)

// Key is where the snapshot lives in every backend.
const Key = "linkshelf:cache:v2"

// Backend is a byte-oriented key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshot encodes the collection as JSON under Key. Contents are trusted as
// written; a later fetch always replaces them.
type Snapshot struct {
	backend Backend
}

func NewSnapshot(backend Backend) *Snapshot {
	return &Snapshot{backend: backend}
}

// Load returns the cached collection, or sentinel.ErrCacheMiss when nothing
// usable is stored.
func (s *Snapshot) Load(ctx context.Context) ([]types.Bookmark, error) {
	raw, err := s.backend.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	var out []types.Bookmark
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", sentinel.ErrCacheMiss, err)
	}
	if out == nil {
		return nil, sentinel.ErrCacheMiss
	}
	return out, nil
}

func (s *Snapshot) Save(ctx context.Context, records []types.Bookmark) error {
	if records == nil {
		records = []types.Bookmark{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.backend.Set(ctx, Key, raw)
}

// IsMiss reports whether err means no snapshot was found.
func IsMiss(err error) bool {
	return errors.Is(err, sentinel.ErrCacheMiss)
}
