package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrItemNotFound = errors.New("menu item not found")

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*Category
	items      map[string]*MenuItem
	modifiers  map[string][]*Modifier // itemID -> modifiers
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		categories: make(map[string]*Category),
		items:      make(map[string]*MenuItem),
		modifiers:  make(map[string][]*Modifier),
	}
}

func (r *InMemoryRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *InMemoryRepository) CreateCategory(ctx context.Context, cat *Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	r.categories[cat.ID] = cat
	return nil
}

func (r *InMemoryRepository) DeleteCategory(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.categories, id)
	return nil
}

func (r *InMemoryRepository) ListItems(ctx context.Context) ([]*MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*MenuItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return it, nil
}

func (r *InMemoryRepository) CreateItem(ctx context.Context, item *MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = item
	return nil
}

func (r *InMemoryRepository) UpdateItem(ctx context.Context, item *MenuItem) error {
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
	delete(r.modifiers, id)
	return nil
}

func (r *InMemoryRepository) ListModifiers(ctx context.Context, itemID string) ([]*Modifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.modifiers[itemID], nil
}

func (r *InMemoryRepository) CreateModifier(ctx context.Context, mod *Modifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mod.ID == "" {
		mod.ID = uuid.New().String()
	}
	r.modifiers[mod.ItemID] = append(r.modifiers[mod.ItemID], mod)
	return nil
}
