package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu          sync.RWMutex
	orders      map[string]*Order
	idempotency map[string]string // key -> order id
	nextNumber  int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders:      make(map[string]*Order),
		idempotency: make(map[string]string),
		nextNumber:  1,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	r.orders[o.ID] = o
	if o.IdempotencyKey != "" {
		r.idempotency[o.IdempotencyKey] = o.ID
	}
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; !ok {
		return ErrOrderNotFound
	}
	r.orders[o.ID] = o
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.orders, id)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) ListByStatus(ctx context.Context, statuses ...string) ([]*Order, error) {
	all, _ := r.List(ctx)

	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var out []*Order
	for _, o := range all {
		if want[o.Status] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idempotency[key]
	if !ok {
		return nil, ErrOrderNotFound
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (r *InMemoryRepository) NextOrderNumber(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.nextNumber
	r.nextNumber++
	return fmt.Sprintf("ORD-%04d", n), nil
}
