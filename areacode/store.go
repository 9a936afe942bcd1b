package areacode

import (
	"sync"

	"go.uber.org/atomic"
)

// table is an immutable snapshot of the name→code mappings.
type table struct {
	large  map[string]string
	middle map[string]string
}

// Store holds the area-code mappings shared by concurrent turns. Reads go
// through an atomic snapshot and never block; writes (merging codes
// discovered by live lookup) are serialized through a mutex and publish a
// fresh snapshot. The table is append-only for the process lifetime and is
// rebuilt from the static seed on every start; it is never persisted.
type Store struct {
	snapshot atomic.Pointer[table]
	// writeMtx serializes Merge against lost updates.
	writeMtx sync.Mutex
}

// NewStore returns a Store seeded with the static prefecture and Tokyo
// neighborhood mappings.
func NewStore() *Store {
	s := new(Store)
	s.snapshot.Store(&table{
		large:  seedLargeAreas,
		middle: seedMiddleAreas,
	})
	return s
}

// LookupLarge returns the large-area code for name.
func (s *Store) LookupLarge(name string) (string, bool) {
	code, ok := s.snapshot.Load().large[name]
	return code, ok
}

// LookupMiddle returns the middle-area code for name.
func (s *Store) LookupMiddle(name string) (string, bool) {
	code, ok := s.snapshot.Load().middle[name]
	return code, ok
}

// Lookup checks both levels, large area first, mirroring the search order of
// the restaurant provider.
func (s *Store) Lookup(name string) (code string, level Level, ok bool) {
	if code, ok := s.LookupLarge(name); ok {
		return code, LargeArea, true
	}
	if code, ok := s.LookupMiddle(name); ok {
		return code, MiddleArea, true
	}
	return "", "", false
}

// Merge folds discovered areas into the table. Existing names are never
// overwritten within the same level; last writer wins between concurrent
// merges of distinct names.
func (s *Store) Merge(areas []Area) {
	if len(areas) == 0 {
		return
	}
	s.writeMtx.Lock()
	defer s.writeMtx.Unlock()
	cur := s.snapshot.Load()
	next := &table{
		large:  make(map[string]string, len(cur.large)+len(areas)),
		middle: make(map[string]string, len(cur.middle)+len(areas)),
	}
	for k, v := range cur.large {
		next.large[k] = v
	}
	for k, v := range cur.middle {
		next.middle[k] = v
	}
	for _, a := range areas {
		switch a.Level {
		case LargeArea:
			if _, exists := next.large[a.Name]; !exists && a.Name != "" && a.Code != "" {
				next.large[a.Name] = a.Code
			}
		case MiddleArea, SmallArea:
			// Small areas are addressed through their middle-area code, so
			// both the area name and its parent name map to the middle code.
			if _, exists := next.middle[a.Name]; !exists && a.Name != "" && a.Code != "" {
				next.middle[a.Name] = a.Code
			}
		}
	}
	s.snapshot.Store(next)
}

// Sizes reports the entry counts per level.
func (s *Store) Sizes() (large, middle int) {
	cur := s.snapshot.Load()
	return len(cur.large), len(cur.middle)
}
