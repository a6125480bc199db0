package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"rasoi/internal/cart"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var idemKey *string
	if o.IdempotencyKey != "" {
		idemKey = &o.IdempotencyKey
	}

	discount, err := marshalDiscount(o.Discount)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, order_number, idempotency_key, table_id, waiter_id,
			order_type, status, subtotal, discount, tax, service_charge, total,
			tax_rate, service_charge_rate, discount_applied,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,NULLIF($4,'')::uuid,NULLIF($5,'')::uuid,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, o.ID, o.OrderNumber, idemKey, o.TableID, o.WaiterID,
		o.Type, o.Status, o.Subtotal, o.DiscountAmount, o.Tax, o.ServiceCharge, o.Total,
		o.TaxRate, o.ServiceChargeRate, discount,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertLines(ctx, tx, o); err != nil {
		return err
	}
	if err := insertTimeline(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// marshalDiscount keeps the discount column NULL for orders without
// one, so reloads restore a nil Discount rather than a zero value.
func marshalDiscount(d *cart.Discount) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func insertLines(ctx context.Context, tx pgx.Tx, o *Order) error {
	for _, l := range o.Lines {
		mods, err := json.Marshal(l.Modifiers)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, menu_item_id, name, unit_price, quantity, modifiers, note)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, l.ID, o.ID, l.MenuItemID, l.Name, l.UnitPrice, l.Quantity, mods, l.Note); err != nil {
			return err
		}
	}
	return nil
}

func insertTimeline(ctx context.Context, tx pgx.Tx, o *Order) error {
	for _, e := range o.Timeline {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_timeline (order_id, status, note, created_at)
			VALUES ($1,$2,$3,$4)
		`, o.ID, e.Status, e.Note, e.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Order, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) FindByIdempotencyKey(ctx context.Context, key string) (*Order, error) {
	return r.getBy(ctx, `WHERE idempotency_key = $1`, key)
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*Order, error) {
	o := &Order{}
	var discount []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, order_number, COALESCE(table_id::text, ''), COALESCE(waiter_id::text, ''),
			order_type, status, subtotal, discount, tax, service_charge, total,
			tax_rate, service_charge_rate, discount_applied,
			created_at, updated_at
		FROM orders `+where,
		arg,
	).Scan(&o.ID, &o.OrderNumber, &o.TableID, &o.WaiterID,
		&o.Type, &o.Status, &o.Subtotal, &o.DiscountAmount, &o.Tax, &o.ServiceCharge, &o.Total,
		&o.TaxRate, &o.ServiceChargeRate, &discount,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if len(discount) > 0 {
		if err := json.Unmarshal(discount, &o.Discount); err != nil {
			return nil, err
		}
	}

	if err := r.loadLines(ctx, o); err != nil {
		return nil, err
	}
	if err := r.loadTimeline(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) loadLines(ctx context.Context, o *Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, menu_item_id, name, unit_price, quantity, modifiers, note
		FROM order_lines
		WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Lines = nil
	for rows.Next() {
		l := &cart.Line{}
		var mods []byte
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.Name, &l.UnitPrice, &l.Quantity, &mods, &l.Note); err != nil {
			return err
		}
		if err := json.Unmarshal(mods, &l.Modifiers); err != nil {
			return err
		}
		o.Lines = append(o.Lines, l)
	}
	return nil
}

func (r *PostgresRepository) loadTimeline(ctx context.Context, o *Order) error {
	rows, err := r.db.Query(ctx, `
		SELECT status, note, created_at
		FROM order_timeline
		WHERE order_id = $1
		ORDER BY id
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Timeline = nil
	for rows.Next() {
		var e TimelineEntry
		if err := rows.Scan(&e.Status, &e.Note, &e.Timestamp); err != nil {
			return err
		}
		o.Timeline = append(o.Timeline, e)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, o *Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	discount, err := marshalDiscount(o.Discount)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET table_id = NULLIF($2,'')::uuid,
			waiter_id = NULLIF($3,'')::uuid,
			order_type = $4,
			status = $5,
			subtotal = $6,
			discount = $7,
			tax = $8,
			service_charge = $9,
			total = $10,
			tax_rate = $11,
			service_charge_rate = $12,
			discount_applied = $13,
			updated_at = $14
		WHERE id = $1
	`, o.ID, o.TableID, o.WaiterID, o.Type, o.Status,
		o.Subtotal, o.DiscountAmount, o.Tax, o.ServiceCharge, o.Total,
		o.TaxRate, o.ServiceChargeRate, discount, o.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_timeline WHERE order_id = $1`, o.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, o); err != nil {
		return err
	}
	if err := insertTimeline(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Order, error) {
	return r.list(ctx, ``)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, statuses ...string) ([]*Order, error) {
	return r.list(ctx, `WHERE status = ANY($1)`, statuses)
}

func (r *PostgresRepository) list(ctx context.Context, where string, args ...any) ([]*Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM orders `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	out := make([]*Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *PostgresRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) + 1 FROM orders`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%04d", n), nil
}
