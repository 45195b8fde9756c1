package artifact

import "sync"

// Store accumulates analysis artifacts across all scanned files. It owns
// three append-only ordered sequences; Snapshot hands out defensive copies
// so later additions to the store and mutation of a returned snapshot are
// isolated from each other.
//
// The store is the only shared mutable state in a scan. A mutex guards it
// so a driver may fan out file pipelines across goroutines; per-goroutine
// arrival order is preserved and cross-file ordering is not observable by
// any correctness property.
type Store struct {
	mu        sync.Mutex
	artifacts Artifacts
}

// NewStore creates an empty artifact store.
func NewStore() *Store {
	return &Store{}
}

// AddSymbols appends symbols to the store.
func (s *Store) AddSymbols(symbols ...Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts.Symbols = append(s.artifacts.Symbols, symbols...)
}

// AddRelations appends relations to the store.
func (s *Store) AddRelations(relations ...Relation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts.Relations = append(s.artifacts.Relations, relations...)
}

// AddAPIEndpoints appends endpoints to the store.
func (s *Store) AddAPIEndpoints(endpoints ...ApiEndpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts.APIEndpoints = append(s.artifacts.APIEndpoints, endpoints...)
}

// Snapshot returns an independently-owned copy of the accumulated
// artifacts, safe to consume concurrently with further additions.
func (s *Store) Snapshot() Artifacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.artifacts.Copy()
}
