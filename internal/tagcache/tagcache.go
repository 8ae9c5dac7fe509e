// Package tagcache implements a tag-subscribed query cache. Every cached
// query result declares the tags it provides; a mutation invalidates tags,
// which marks every subscribed entry stale. Stale entries are kept but no
// longer served, so the next observation refetches.
package tagcache

import (
	"sync"
)

// ListID is the reserved tag id for collection-level ("the whole list") tags.
const ListID = "LIST"

// Tag labels cache entries. Type groups an entity family (e.g. "Products");
// ID is either a specific entity id or ListID.
type Tag struct {
	Type string
	ID   string
}

// ItemTag builds an item-level tag for one entity id
func ItemTag(entityType, id string) Tag {
	return Tag{Type: entityType, ID: id}
}

// ListTag builds the collection-level tag of an entity family
func ListTag(entityType string) Tag {
	return Tag{Type: entityType, ID: ListID}
}

type entry struct {
	value       any
	tags        map[Tag]struct{}
	stale       bool
	subscribers int
}

func (e *entry) providesAny(tags []Tag) bool {
	for _, t := range tags {
		if _, ok := e.tags[t]; ok {
			return true
		}
	}
	return false
}

// Store holds cached query results keyed by an opaque query key. A Store is
// safe for concurrent use. Writes are last-wins: Put unconditionally
// replaces whatever is cached under the key, with no version detection.
//
// Construct one Store per process and pass it by reference; it has no
// teardown requirement and lives for the process lifetime.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty Store
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Put stores a value under key and subscribes the entry to the given tags,
// clearing any previous staleness. The previous value, tags included, is
// discarded.
func (s *Store) Put(key string, value any, tags []Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tagSet := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	subscribers := 0
	if prev, ok := s.entries[key]; ok {
		subscribers = prev.subscribers
	}

	s.entries[key] = &entry{
		value:       value,
		tags:        tagSet,
		subscribers: subscribers,
	}
}

// Get returns the cached value for key only while the entry is fresh.
// Stale or missing entries report ok=false and must be refetched.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

// Lookup returns the cached value for key regardless of staleness. The
// second result reports presence, the third freshness.
func (s *Store) Lookup(key string) (any, bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, true, !e.stale
}

// Invalidate marks every entry subscribed to any of the given tags as
// stale. Entries cached after this call are unaffected.
func (s *Store) Invalidate(tags ...Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.providesAny(tags) {
			e.stale = true
		}
	}
}

// InvalidateType marks every entry of one entity family stale, whatever
// its tag id. Used when a mutation makes all cached entities of a type
// potentially stale (e.g. a sale changing product stock).
func (s *Store) InvalidateType(entityType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		for t := range e.tags {
			if t.Type == entityType {
				e.stale = true
				break
			}
		}
	}
}

// Subscribe records one more consumer observing the entry under key. The
// entry need not exist yet; the subscription survives the next Put.
func (s *Store) Subscribe(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{tags: make(map[Tag]struct{}), stale: true}
		s.entries[key] = e
	}
	e.subscribers++
}

// Unsubscribe drops one consumer of the entry under key and evicts the
// entry once nobody observes it.
func (s *Store) Unsubscribe(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.subscribers--
	if e.subscribers <= 0 {
		delete(s.entries, key)
	}
}

// Len returns the number of cached entries, stale ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops every entry and subscription
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}
