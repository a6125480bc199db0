package payment

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu           sync.RWMutex
	transactions map[string]*Transaction
	idempotency  map[string]string // key -> transaction id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		transactions: make(map[string]*Transaction),
		idempotency:  make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, t *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	r.transactions[t.ID] = t
	if t.IdempotencyKey != "" {
		r.idempotency[t.IdempotencyKey] = t.ID
	}
	return nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, t *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transactions[t.ID]; !ok {
		return ErrTransactionNotFound
	}
	r.transactions[t.ID] = t
	return nil
}

func (r *InMemoryRepository) ListByOrder(ctx context.Context, orderID string) ([]*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Transaction
	for _, t := range r.transactions {
		if t.OrderID == orderID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idempotency[key]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	t, ok := r.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}
