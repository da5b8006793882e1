package tracker

import (
	"context"
	"slices"
	"sync"
)

// Store persists price records. Implementations must be safe for
// concurrent use.
type Store interface {
	Add(ctx context.Context, r Record) error

	// Latest returns the most recent record of a product.
	Latest(ctx context.Context, productID string) (Record, bool, error)

	// History returns up to limit records, newest first. A limit of zero or
	// less returns everything.
	History(ctx context.Context, productID string, limit int) ([]Record, error)

	// All returns every record of a product, oldest first.
	All(ctx context.Context, productID string) ([]Record, error)
}

// MemoryStore keeps records in process memory. Records of a product are
// kept in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

func (m *MemoryStore) Add(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ProductID] = append(m.records[r.ProductID], r)
	return nil
}

func (m *MemoryStore) Latest(_ context.Context, productID string) (Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs := m.records[productID]
	if len(rs) == 0 {
		return Record{}, false, nil
	}
	return rs[len(rs)-1], true, nil
}

func (m *MemoryStore) History(_ context.Context, productID string, limit int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs := m.records[productID]
	n := len(rs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(rs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, rs[i])
	}
	return out, nil
}

func (m *MemoryStore) All(_ context.Context, productID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records[productID]), nil
}
