package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity is the number of results a MemoryStore keeps
const DefaultMemoryCapacity = 200

// MemoryStore keeps the most recent results in process memory.
// When full, the oldest result is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID // oldest first
	byID     map[uuid.UUID]*Result
}

// NewMemoryStore creates a store holding at most capacity results
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		byID:     make(map[uuid.UUID]*Result),
	}
}

// SaveResult stores a copy of r, assigning an ID and timestamp when unset
func (m *MemoryStore) SaveResult(_ context.Context, r *Result) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	cp := *r

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[cp.ID]; !exists {
		m.order = append(m.order, cp.ID)
	}
	m.byID[cp.ID] = &cp

	for len(m.order) > m.capacity {
		delete(m.byID, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// GetResult returns a copy of the stored result, or nil
func (m *MemoryStore) GetResult(_ context.Context, id uuid.UUID) (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// ListResults returns up to limit results, newest first
func (m *MemoryStore) ListResults(_ context.Context, limit int) ([]ResultSummary, error) {
	limit = ClampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ResultSummary, 0, min(limit, len(m.order)))
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.byID[m.order[i]].Summary())
	}
	return out, nil
}

// Close is a no-op
func (m *MemoryStore) Close() {}
