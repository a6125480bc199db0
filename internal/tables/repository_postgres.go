package tables

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, t *Table) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO dining_tables (id, table_number, seats, section, state, order_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid,$7,$8)
	`, t.ID, t.Number, t.Seats, t.Section, t.State, t.OrderID, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Table, error) {
	t := &Table{}
	err := r.db.QueryRow(ctx, `
		SELECT id, table_number, seats, section, state, COALESCE(order_id::text, ''), created_at, updated_at
		FROM dining_tables
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Number, &t.Seats, &t.Section, &t.State, &t.OrderID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, ErrTableNotFound
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *Table) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE dining_tables
		SET table_number = $2, seats = $3, section = $4, state = $5,
			order_id = NULLIF($6,'')::uuid, updated_at = $7
		WHERE id = $1
	`, t.ID, t.Number, t.Seats, t.Section, t.State, t.OrderID, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTableNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Table, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_number, seats, section, state, COALESCE(order_id::text, ''), created_at, updated_at
		FROM dining_tables
		ORDER BY table_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Table
	for rows.Next() {
		t := &Table{}
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats, &t.Section, &t.State, &t.OrderID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *PostgresRepository) ExistsByNumber(ctx context.Context, number int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM dining_tables WHERE table_number = $1)
	`, number).Scan(&exists)
	return exists, err
}
