package tables

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tables: make(map[string]*Table)}
}

func (r *InMemoryRepository) Save(ctx context.Context, t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	r.tables[t.ID] = t
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[t.ID]; !ok {
		return ErrTableNotFound
	}
	r.tables[t.ID] = t
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tables, id)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *InMemoryRepository) ExistsByNumber(ctx context.Context, number int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tables {
		if t.Number == number {
			return true, nil
		}
	}
	return false, nil
}
