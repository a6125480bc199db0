package orders

import (
	"context"
	"errors"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository defines all data access for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Order, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]*Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Order, error)
	NextOrderNumber(ctx context.Context) (string, error)
}
