package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"linkshelf/internal/bookmark/models"
	"linkshelf/pkg/platform/sentinel"
)

// InMemory keeps the collection in a map guarded by a RWMutex. It backs unit
// tests and the `memory` store driver.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.Bookmark
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]models.Bookmark)}
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

// Insert assigns a fresh id and rank = max+1 (0 when empty).
func (s *InMemory) Insert(_ context.Context, b *models.Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = newID()
	}
	b.Rank = s.nextRankLocked()
	s.records[b.ID] = *b
	return nil
}

func (s *InMemory) Update(_ context.Context, id string, patch models.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	patch.Apply(&rec)
	s.records[id] = rec
	return nil
}

// SetRank is a no-op for unknown ids.
func (s *InMemory) SetRank(_ context.Context, id string, rank int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Rank = rank
		s.records[id] = rec
	}
	return nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *InMemory) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]models.Bookmark)
	return nil
}

// SeedIfEmpty inserts records only when the collection is empty. Ranks are
// taken from the records as given.
func (s *InMemory) SeedIfEmpty(_ context.Context, records []*models.Bookmark) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) > 0 {
		return false, nil
	}
	for _, b := range records {
		if b.ID == "" {
			b.ID = newID()
		}
		s.records[b.ID] = *b
	}
	return true, nil
}

func (s *InMemory) sortedLocked() []*models.Bookmark {
	out := make([]*models.Bookmark, 0, len(s.records))
	for _, rec := range s.records {
		rec := rec
		out = append(out, &rec)
	}
	models.Sort(out)
	return out
}

func (s *InMemory) nextRankLocked() int {
	next, seen := 0, false
	for _, rec := range s.records {
		if !seen || rec.Rank+1 > next {
			next, seen = rec.Rank+1, true
		}
	}
	return next
}

// newID returns a time-ordered UUIDv7 so that id order follows creation order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
