package catalog

import "context"

// Repository defines all data access for the menu catalog.
type Repository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, cat *Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListItems(ctx context.Context) ([]*MenuItem, error)
	GetItem(ctx context.Context, id string) (*MenuItem, error)
	CreateItem(ctx context.Context, item *MenuItem) error
	UpdateItem(ctx context.Context, item *MenuItem) error
	DeleteItem(ctx context.Context, id string) error

	ListModifiers(ctx context.Context, itemID string) ([]*Modifier, error)
	CreateModifier(ctx context.Context, mod *Modifier) error
}
