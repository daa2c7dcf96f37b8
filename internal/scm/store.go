package scm

import "sync"

// Store holds the current resource groups for the repository. Groups are
// replaced wholesale on every refresh: readers never observe a partially
// updated list, and any Resource pointer obtained before an update is
// stale afterwards. Consumers re-resolve by URI, never by object identity.
//
// Each refresh cycle stamps itself with Begin and publishes with
// TryUpdate: a refresh that lost the race to a newer one is discarded
// instead of overwriting fresher groups with stale decorations.
type Store struct {
	mu        sync.RWMutex
	groups    []*ResourceGroup
	issued    uint64
	applied   uint64
	listeners []func()
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// OnChange registers a callback fired once after every applied update.
// Callbacks run outside the store lock, in registration order.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Begin stamps a new refresh cycle and returns its generation. Calling
// Begin invalidates every earlier generation that has not published yet.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// TryUpdate publishes groups for the given generation. It reports false,
// leaving the store untouched, when a newer generation has begun since
// gen was issued or when gen already published. Each generation publishes
// at most once.
func (s *Store) TryUpdate(gen uint64, groups []*ResourceGroup) bool {
	s.mu.Lock()
	if gen != s.issued || gen == s.applied {
		s.mu.Unlock()
		return false
	}
	s.applied = gen
	s.groups = groups
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// Update replaces the stored groups unconditionally, stamping a fresh
// generation of its own.
func (s *Store) Update(groups []*ResourceGroup) {
	s.mu.Lock()
	s.issued++
	s.applied = s.issued
	s.groups = groups
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Current returns the live group slice. Callers must treat it as
// read-only; it is replaced, never mutated.
func (s *Store) Current() []*ResourceGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups
}

// Resolve finds the resource with the given URI in the current groups,
// preferring the given group when the URI appears in more than one.
func (s *Store) Resolve(uri string, prefer GroupID) (*Resource, bool) {
	s.mu.RLock()
	groups := s.groups
	s.mu.RUnlock()

	var found *Resource
	for _, g := range groups {
		for _, r := range g.Resources {
			if r.URI != uri {
				continue
			}
			if g.ID == prefer {
				return r, true
			}
			if found == nil {
				found = r
			}
		}
	}
	return found, found != nil
}
