package catalog

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one immutable copy of the catalog.
// Products must be treated as read-only by every reader.
type Snapshot struct {
	ID         string
	Generation uint64
	Products   []Product
	FetchedAt  time.Time
}

// Status summarises the store for status endpoints and the page state.
type Status struct {
	Loaded      bool      `json:"loaded"`
	SnapshotID  string    `json:"snapshot_id,omitempty"`
	Generation  uint64    `json:"generation"`
	Count       int       `json:"count"`
	FetchedAt   time.Time `json:"fetched_at,omitzero"`
	Failed      bool      `json:"failed"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitzero"`
}

// Store holds the most recent catalog snapshot.
type Store struct {
	mu     sync.RWMutex
	snap   Snapshot
	loaded bool

	errGen uint64
	err    error
	errAt  time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns the current snapshot and whether one has been loaded.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loaded
}

// Products returns the current product list, or nil before the first load.
func (s *Store) Products() []Product {
	snap, _ := s.Snapshot()
	return snap.Products
}

// Replace installs products as generation gen.
// It returns false, leaving the store unchanged, when gen is not newer
// than the generation already held.
func (s *Store) Replace(gen uint64, products []Product, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && gen <= s.snap.Generation {
		return false
	}

	s.snap = Snapshot{
		ID:         uuid.NewString(),
		Generation: gen,
		Products:   slices.Clone(products),
		FetchedAt:  at,
	}
	if s.snap.Products == nil {
		s.snap.Products = []Product{}
	}
	s.loaded = true
	return true
}

// RecordFailure notes that fetch generation gen failed.
// The snapshot is untouched. Failures older than the latest recorded
// outcome are ignored and reported as false.
func (s *Store) RecordFailure(gen uint64, err error, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen <= s.errGen || (s.loaded && gen <= s.snap.Generation) {
		return false
	}
	s.errGen = gen
	s.err = err
	s.errAt = at
	return true
}

// Failed reports whether the most recent completed fetch failed.
func (s *Store) Failed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failedLocked()
}

func (s *Store) failedLocked() bool {
	return s.err != nil && s.errGen > s.snap.Generation
}

// Status returns a point-in-time summary of the store.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		Loaded:     s.loaded,
		SnapshotID: s.snap.ID,
		Generation: s.snap.Generation,
		Count:      len(s.snap.Products),
		FetchedAt:  s.snap.FetchedAt,
		Failed:     s.failedLocked(),
	}
	if st.Failed {
		st.LastError = s.err.Error()
		st.LastErrorAt = s.errAt
	}
	return st
}

// Categories returns the distinct category names in the current snapshot, sorted.
func (s *Store) Categories() []string {
	products := s.Products()

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, p := range products {
		name, ok := p.CategoryName()
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
