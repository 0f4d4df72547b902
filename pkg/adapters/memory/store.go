package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/shapetree"
)

// Store implements ports.DesignStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Design
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Design),
	}
}

// Save persists the design in memory.
func (s *Store) Save(ctx context.Context, design *domain.Design) error {
	if design.ID == "" {
		return fmt.Errorf("design ID cannot be empty")
	}
	// Deep copy to ensure isolation, similar to serialization
	copied := clone(design)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[design.ID] = copied
	return nil
}

// Load retrieves the design from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	design, ok := s.data[id]
	if !ok {
		return nil, domain.ErrDesignNotFound
	}
	// Copy on read so the caller can't mutate store state through the pointer
	return clone(design), nil
}

// Delete removes the design.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored design IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(d *domain.Design) *domain.Design {
	cp := *d
	cp.Shapes = shapetree.Clone(d.Shapes)
	return &cp
}
