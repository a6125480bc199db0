package reports

import (
	"context"
	"time"

	"rasoi/internal/cart"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository pushes the aggregation into SQL so report queries
// never page full orders into memory.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	s := &SalesSummary{From: from, To: to}
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
	`, from, to).Scan(&s.Revenue, &s.OrderCount)
	if err != nil {
		return nil, err
	}

	if s.OrderCount > 0 {
		s.AverageTicket = cart.Round2(s.Revenue / float64(s.OrderCount))
	}
	s.Revenue = cart.Round2(s.Revenue)
	return s, nil
}

func (r *PostgresRepository) TopItems(ctx context.Context, from, to time.Time, limit int) ([]ItemSales, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT l.menu_item_id, l.name,
			SUM(l.quantity),
			SUM(l.unit_price * l.quantity)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE o.status = 'paid' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY l.menu_item_id, l.name
		ORDER BY SUM(l.quantity) DESC, l.name
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemSales
	for rows.Next() {
		var row ItemSales
		if err := rows.Scan(&row.MenuItemID, &row.Name, &row.Quantity, &row.Revenue); err != nil {
			return nil, err
		}
		row.Revenue = cart.Round2(row.Revenue)
		out = append(out, row)
	}
	return out, nil
}

func (r *PostgresRepository) ByCategory(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.breakdown(ctx, `
		SELECT COALESCE(m.category_id::text, ''), COALESCE(c.name, ''),
			SUM(l.unit_price * l.quantity),
			COUNT(DISTINCT o.id)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		LEFT JOIN menu_items m ON m.id::text = l.menu_item_id
		LEFT JOIN menu_categories c ON c.id = m.category_id
		WHERE o.status = 'paid' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY m.category_id, c.name
		ORDER BY SUM(l.unit_price * l.quantity) DESC
	`, true, from, to)
}

func (r *PostgresRepository) ByStaff(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.breakdown(ctx, `
		SELECT COALESCE(waiter_id::text, ''), SUM(total), COUNT(*)
		FROM orders
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
		GROUP BY waiter_id
		ORDER BY SUM(total) DESC
	`, false, from, to)
}

func (r *PostgresRepository) ByTable(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.breakdown(ctx, `
		SELECT COALESCE(table_id::text, ''), SUM(total), COUNT(*)
		FROM orders
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
		GROUP BY table_id
		ORDER BY SUM(total) DESC
	`, false, from, to)
}

func (r *PostgresRepository) ByPaymentMethod(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.breakdown(ctx, `
		SELECT leg->>'method',
			SUM((leg->>'amount')::numeric),
			COUNT(DISTINCT t.order_id)
		FROM payment_transactions t,
			jsonb_array_elements(t.legs) leg
		WHERE leg->>'status' = 'succeeded'
			AND t.created_at >= $1 AND t.created_at < $2
		GROUP BY leg->>'method'
		ORDER BY SUM((leg->>'amount')::numeric) DESC
	`, false, from, to)
}

func (r *PostgresRepository) breakdown(ctx context.Context, query string, withLabel bool, from, to time.Time) ([]BreakdownRow, error) {
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BreakdownRow
	for rows.Next() {
		var row BreakdownRow
		if withLabel {
			err = rows.Scan(&row.Key, &row.Label, &row.Revenue, &row.OrderCount)
		} else {
			err = rows.Scan(&row.Key, &row.Revenue, &row.OrderCount)
		}
		if err != nil {
			return nil, err
		}
		row.Revenue = cart.Round2(row.Revenue)
		out = append(out, row)
	}
	return out, nil
}

func (r *PostgresRepository) DailyTrend(ctx context.Context, from, to time.Time) ([]DailyPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT TO_CHAR(created_at, 'YYYY-MM-DD'), SUM(total), COUNT(*)
		FROM orders
		WHERE status = 'paid' AND created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyPoint
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Date, &p.Revenue, &p.OrderCount); err != nil {
			return nil, err
		}
		p.Revenue = cart.Round2(p.Revenue)
		out = append(out, p)
	}
	return out, nil
}
