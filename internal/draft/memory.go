package draft

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	draft     Draft
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. When it is full the least
// recently used draft is dropped; drafts also expire ttl after their last save.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[uuid.UUID]*list.Element
	order    *list.List // front is most recently used
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore panics on a non-positive capacity. A zero ttl disables expiry.
func NewMemoryStore(capacity int, ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	if capacity <= 0 {
		panic("draft: memory store capacity must be positive")
	}
	s := &MemoryStore{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[uuid.UUID]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	entry := elem.Value.(*memoryEntry)
	if s.expired(entry) {
		s.remove(elem)
		return Draft{}, ErrNotFound
	}
	s.order.MoveToFront(elem)
	return entry.draft.clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{draft: d.clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	if elem, ok := s.items[d.ID]; ok {
		elem.Value = entry
		s.order.MoveToFront(elem)
		return nil
	}
	s.items[d.ID] = s.order.PushFront(entry)
	for s.order.Len() > s.capacity {
		s.remove(s.order.Back())
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	expired := s.expired(elem.Value.(*memoryEntry))
	s.remove(elem)
	if expired {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of held drafts, expired ones included until touched.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Must be called with the lock held.
func (s *MemoryStore) expired(e *memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// Must be called with the lock held.
func (s *MemoryStore) remove(elem *list.Element) {
	s.order.Remove(elem)
	delete(s.items, elem.Value.(*memoryEntry).draft.ID)
}
