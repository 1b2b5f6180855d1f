package reconcile

import (
	"slices"

	"linkshelf/pkg/types"
)

// State is the client lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateMutating
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMutating:
		return "mutating"
	default:
		return "uninitialized"
	}
}

// Collection is an immutable view of the local sequence at one version.
type Collection struct {
	Version uint64
	Items   []types.Bookmark
}

// IDs lists the ids of persisted records in order. Pending records are
// skipped.
func (c Collection) IDs() []string {
	out := make([]string, 0, len(c.Items))
	for _, b := range c.Items {
		if !b.Pending() {
			out = append(out, b.ID)
		}
	}
	return out
}

// entry pairs a record with a client-local key so a pending record can be
// found again when its insert completes.
type entry struct {
	key uint64
	rec types.Bookmark
}

// sequence is the owned, versioned local copy. Every change bumps version.
// Callers hold the client mutex.
type sequence struct {
	version uint64
	nextKey uint64
	entries []entry
}

func (s *sequence) snapshot() Collection {
	items := make([]types.Bookmark, len(s.entries))
	for i, e := range s.entries {
		items[i] = e.rec
	}
	return Collection{Version: s.version, Items: items}
}

func (s *sequence) replace(items []types.Bookmark) {
	s.entries = s.entries[:0:0]
	for _, b := range items {
		s.nextKey++
		s.entries = append(s.entries, entry{key: s.nextKey, rec: b})
	}
	s.version++
}

func (s *sequence) prepend(b types.Bookmark) uint64 {
	s.nextKey++
	s.entries = slices.Insert(s.entries, 0, entry{key: s.nextKey, rec: b})
	s.version++
	return s.nextKey
}

// fill replaces the record stored under key. It reports false when the key
// is gone, e.g. after a reload.
func (s *sequence) fill(key uint64, b types.Bookmark) bool {
	i := slices.IndexFunc(s.entries, func(e entry) bool { return e.key == key })
	if i < 0 {
		return false
	}
	s.entries[i].rec = b
	s.version++
	return true
}

func (s *sequence) removeAt(i int) types.Bookmark {
	rec := s.entries[i].rec
	s.entries = slices.Delete(s.entries, i, i+1)
	s.version++
	return rec
}

func (s *sequence) indexOf(id string) int {
	return slices.IndexFunc(s.entries, func(e entry) bool { return e.rec.ID == id })
}

// move splices the entry at from into position to.
func (s *sequence) move(from, to int) {
	e := s.entries[from]
	s.entries = slices.Delete(s.entries, from, from+1)
	s.entries = slices.Insert(s.entries, to, e)
	s.version++
}
