package tables

import (
	"context"
	"errors"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNumberTaken   = errors.New("table number already in use")
)

type Repository interface {
	Save(ctx context.Context, t *Table) error
	Get(ctx context.Context, id string) (*Table, error)
	Update(ctx context.Context, t *Table) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Table, error)
	ExistsByNumber(ctx context.Context, number int) (bool, error)
}
