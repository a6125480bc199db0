package payment

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	legs, err := json.Marshal(t.Legs)
	if err != nil {
		return err
	}

	var idemKey *string
	if t.IdempotencyKey != "" {
		idemKey = &t.IdempotencyKey
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO payment_transactions (
			id, order_id, order_number, idempotency_key, status,
			amount_due, amount_paid, tip_amount, change_due, refunded_amount,
			legs, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, t.ID, t.OrderID, t.OrderNumber, idemKey, t.Status,
		t.AmountDue, t.AmountPaid, t.TipAmount, t.ChangeDue, t.RefundedAmount,
		legs, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Transaction, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Transaction, error) {
	return r.getBy(ctx, `WHERE idempotency_key = $1`, key)
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*Transaction, error) {
	t := &Transaction{}
	var legs []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, order_id, order_number, status,
			amount_due, amount_paid, tip_amount, change_due, refunded_amount,
			legs, created_at, updated_at
		FROM payment_transactions `+where,
		arg,
	).Scan(&t.ID, &t.OrderID, &t.OrderNumber, &t.Status,
		&t.AmountDue, &t.AmountPaid, &t.TipAmount, &t.ChangeDue, &t.RefundedAmount,
		&legs, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, ErrTransactionNotFound
	}
	if err := json.Unmarshal(legs, &t.Legs); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *Transaction) error {
	legs, err := json.Marshal(t.Legs)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE payment_transactions
		SET status = $2, amount_paid = $3, change_due = $4, refunded_amount = $5,
			legs = $6, updated_at = $7
		WHERE id = $1
	`, t.ID, t.Status, t.AmountPaid, t.ChangeDue, t.RefundedAmount, legs, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID string) ([]*Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, order_number, status,
			amount_due, amount_paid, tip_amount, change_due, refunded_amount,
			legs, created_at, updated_at
		FROM payment_transactions
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		t := &Transaction{}
		var legs []byte
		if err := rows.Scan(&t.ID, &t.OrderID, &t.OrderNumber, &t.Status,
			&t.AmountDue, &t.AmountPaid, &t.TipAmount, &t.ChangeDue, &t.RefundedAmount,
			&legs, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(legs, &t.Legs); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
