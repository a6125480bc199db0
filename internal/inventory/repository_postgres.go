package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SaveItem(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory_items (id, name, unit, stock, reorder_level, cost_per_unit, supplier_id, expiry_date, last_restocked, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,'')::uuid,$8,$9,$10,$11)
	`, item.ID, item.Name, item.Unit, item.Stock, item.ReorderLevel, item.CostPerUnit,
		item.SupplierID, item.ExpiryDate, item.LastRestocked, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	item := &Item{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, unit, stock, reorder_level, cost_per_unit, COALESCE(supplier_id::text, ''), expiry_date, last_restocked, created_at, updated_at
		FROM inventory_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.ReorderLevel,
		&item.CostPerUnit, &item.SupplierID, &item.ExpiryDate, &item.LastRestocked, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *Item) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_items
		SET name = $2, unit = $3, stock = $4, reorder_level = $5, cost_per_unit = $6,
			supplier_id = NULLIF($7,'')::uuid, expiry_date = $8, last_restocked = $9, updated_at = $10
		WHERE id = $1
	`, item.ID, item.Name, item.Unit, item.Stock, item.ReorderLevel, item.CostPerUnit,
		item.SupplierID, item.ExpiryDate, item.LastRestocked, item.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, unit, stock, reorder_level, cost_per_unit, COALESCE(supplier_id::text, ''), expiry_date, last_restocked, created_at, updated_at
		FROM inventory_items
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &item.Stock, &item.ReorderLevel,
			&item.CostPerUnit, &item.SupplierID, &item.ExpiryDate, &item.LastRestocked, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Deduct locks every required row with FOR UPDATE, checks all
// requirements, then applies them in the same transaction. Shortfalls
// roll the transaction back so nothing is consumed.
func (r *PostgresRepository) Deduct(ctx context.Context, requirements map[string]float64, reference string) ([]Shortfall, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock in a stable order to avoid deadlocks between concurrent
	// orders sharing ingredients.
	ids := make([]string, 0, len(requirements))
	for id := range requirements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var shortfalls []Shortfall
	for _, id := range ids {
		var name, unit string
		var stock float64
		err := tx.QueryRow(ctx, `
			SELECT name, unit, stock FROM inventory_items WHERE id = $1 FOR UPDATE
		`, id).Scan(&name, &unit, &stock)
		if err != nil {
			return nil, ErrItemNotFound
		}
		if stock < requirements[id] {
			shortfalls = append(shortfalls, Shortfall{
				ItemID:    id,
				Name:      name,
				Unit:      unit,
				Required:  requirements[id],
				Available: stock,
				Shortage:  requirements[id] - stock,
			})
		}
	}
	if len(shortfalls) > 0 {
		sort.Slice(shortfalls, func(i, j int) bool { return shortfalls[i].Name < shortfalls[j].Name })
		return shortfalls, nil
	}

	for _, id := range ids {
		required := requirements[id]
		var balance float64
		if err := tx.QueryRow(ctx, `
			UPDATE inventory_items SET stock = stock - $2, updated_at = NOW() WHERE id = $1
			RETURNING stock
		`, id, required).Scan(&balance); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (id, item_id, movement_type, quantity, balance_after, reference, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,NOW())
		`, uuid.New().String(), id, MovementDeduction, -required, balance, reference); err != nil {
			return nil, err
		}
	}

	return nil, tx.Commit(ctx)
}

func (r *PostgresRepository) SetRecipe(ctx context.Context, menuItemID string, ingredients []RecipeIngredient) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE menu_item_id = $1`, menuItemID); err != nil {
		return err
	}
	for _, ing := range ingredients {
		if _, err := tx.Exec(ctx, `
			INSERT INTO recipe_ingredients (menu_item_id, item_id, quantity)
			VALUES ($1,$2,$3)
		`, menuItemID, ing.ItemID, ing.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetRecipe(ctx context.Context, menuItemID string) ([]RecipeIngredient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT menu_item_id, item_id, quantity
		FROM recipe_ingredients
		WHERE menu_item_id = $1
	`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeIngredient
	for rows.Next() {
		var ing RecipeIngredient
		if err := rows.Scan(&ing.MenuItemID, &ing.ItemID, &ing.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}

func (r *PostgresRepository) RecordMovement(ctx context.Context, m *Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_movements (id, item_id, movement_type, quantity, balance_after, reference, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, m.ID, m.ItemID, m.Type, m.Quantity, m.BalanceAfter, m.Reference, m.CreatedAt)
	return err
}

func (r *PostgresRepository) ListMovements(ctx context.Context, itemID string) ([]*Movement, error) {
	query := `
		SELECT id, item_id, movement_type, quantity, balance_after, reference, created_at
		FROM stock_movements`
	var args []any
	if itemID != "" {
		query += ` WHERE item_id = $1`
		args = append(args, itemID)
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movement
	for rows.Next() {
		m := &Movement{}
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.BalanceAfter, &m.Reference, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *PostgresRepository) SaveSupplier(ctx context.Context, s *Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (id, name, email, phone, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, s.ID, s.Name, s.Email, s.Phone, s.CreatedAt)
	return err
}

func (r *PostgresRepository) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, created_at FROM suppliers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Supplier
	for rows.Next() {
		s := &Supplier{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
