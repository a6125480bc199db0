package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	items     map[string]*Item
	recipes   map[string][]RecipeIngredient // menu item id -> ingredients
	movements []*Movement
	suppliers map[string]*Supplier
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:     make(map[string]*Item),
		recipes:   make(map[string][]RecipeIngredient),
		suppliers: make(map[string]*Supplier),
	}
}

func (r *InMemoryRepository) SaveItem(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = item
	return nil
}

func (r *InMemoryRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (r *InMemoryRepository) UpdateItem(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *InMemoryRepository) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *InMemoryRepository) ListItems(ctx context.Context) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Deduct holds the write lock across check and apply so concurrent
// orders cannot both pass the check and overdraw an ingredient.
func (r *InMemoryRepository) Deduct(ctx context.Context, requirements map[string]float64, reference string) ([]Shortfall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shortfalls []Shortfall
	for itemID, required := range requirements {
		item, ok := r.items[itemID]
		if !ok {
			return nil, ErrItemNotFound
		}
		if item.Stock < required {
			shortfalls = append(shortfalls, Shortfall{
				ItemID:    item.ID,
				Name:      item.Name,
				Unit:      item.Unit,
				Required:  required,
				Available: item.Stock,
				Shortage:  required - item.Stock,
			})
		}
	}
	if len(shortfalls) > 0 {
		sort.Slice(shortfalls, func(i, j int) bool { return shortfalls[i].Name < shortfalls[j].Name })
		return shortfalls, nil
	}

	now := time.Now().UTC()
	for itemID, required := range requirements {
		item := r.items[itemID]
		item.Stock -= required
		item.UpdatedAt = now
		r.movements = append(r.movements, &Movement{
			ID:           uuid.New().String(),
			ItemID:       itemID,
			Type:         MovementDeduction,
			Quantity:     -required,
			BalanceAfter: item.Stock,
			Reference:    reference,
			CreatedAt:    now,
		})
	}
	return nil, nil
}

func (r *InMemoryRepository) SetRecipe(ctx context.Context, menuItemID string, ingredients []RecipeIngredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recipes[menuItemID] = ingredients
	return nil
}

func (r *InMemoryRepository) GetRecipe(ctx context.Context, menuItemID string) ([]RecipeIngredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.recipes[menuItemID], nil
}

func (r *InMemoryRepository) RecordMovement(ctx context.Context, m *Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *InMemoryRepository) ListMovements(ctx context.Context, itemID string) ([]*Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Movement
	for _, m := range r.movements {
		if itemID == "" || m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SaveSupplier(ctx context.Context, s *Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *InMemoryRepository) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
