package payment

import (
	"context"
	"errors"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	ListByOrder(ctx context.Context, orderID string) ([]*Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error)
}
