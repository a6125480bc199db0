package catalog

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

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, sort_order
		FROM menu_categories
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, err
		}
		cats = append(cats, &c)
	}
	return cats, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, cat *Category) error {
	if cat.ID == "" {
		cat.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_categories (id, name, sort_order)
		VALUES ($1, $2, $3)
	`, cat.ID, cat.Name, cat.SortOrder)
	return err
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM menu_categories WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]*MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, price, available, prep_time_minutes, station, COALESCE(image_url, '')
		FROM menu_items
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*MenuItem
	for rows.Next() {
		var it MenuItem
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Price,
			&it.Available, &it.PrepTimeMinutes, &it.Station, &it.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*MenuItem, error) {
	var it MenuItem
	err := r.db.QueryRow(ctx, `
		SELECT id, category_id, name, price, available, prep_time_minutes, station, COALESCE(image_url, '')
		FROM menu_items
		WHERE id = $1
	`, id).Scan(&it.ID, &it.CategoryID, &it.Name, &it.Price,
		&it.Available, &it.PrepTimeMinutes, &it.Station, &it.ImageURL)
	if err != nil {
		return nil, ErrItemNotFound
	}
	return &it, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_items (id, category_id, name, price, available, prep_time_minutes, station, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.ID, item.CategoryID, item.Name, item.Price,
		item.Available, item.PrepTimeMinutes, item.Station, item.ImageURL)
	return err
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *MenuItem) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET category_id = $2,
			name = $3,
			price = $4,
			available = $5,
			prep_time_minutes = $6,
			station = $7,
			image_url = $8
		WHERE id = $1
	`, item.ID, item.CategoryID, item.Name, item.Price,
		item.Available, item.PrepTimeMinutes, item.Station, item.ImageURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) ListModifiers(ctx context.Context, itemID string) ([]*Modifier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, name, price_delta
		FROM menu_modifiers
		WHERE item_id = $1
		ORDER BY name
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mods []*Modifier
	for rows.Next() {
		var m Modifier
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Name, &m.PriceDelta); err != nil {
			return nil, err
		}
		mods = append(mods, &m)
	}
	return mods, nil
}

func (r *PostgresRepository) CreateModifier(ctx context.Context, mod *Modifier) error {
	if mod.ID == "" {
		mod.ID = uuid.New().String()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_modifiers (id, item_id, name, price_delta)
		VALUES ($1, $2, $3, $4)
	`, mod.ID, mod.ItemID, mod.Name, mod.PriceDelta)
	return err
}
