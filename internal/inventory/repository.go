package inventory

import (
	"context"
	"errors"
)

var (
	ErrItemNotFound     = errors.New("inventory item not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

// Repository defines all data access for ingredients, recipes and the
// stock movement audit trail.
type Repository interface {
	SaveItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id string) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]*Item, error)

	// Deduct applies every requirement in one atomic step. When any
	// ingredient falls short it deducts nothing and returns the
	// complete shortfall list.
	Deduct(ctx context.Context, requirements map[string]float64, reference string) ([]Shortfall, error)

	SetRecipe(ctx context.Context, menuItemID string, ingredients []RecipeIngredient) error
	GetRecipe(ctx context.Context, menuItemID string) ([]RecipeIngredient, error)

	RecordMovement(ctx context.Context, m *Movement) error
	ListMovements(ctx context.Context, itemID string) ([]*Movement, error)

	SaveSupplier(ctx context.Context, s *Supplier) error
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
}
