package reports

import (
	"context"
	"sort"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/catalog"
	"rasoi/internal/orders"
	"rasoi/internal/payment"
)

// InMemoryRepository derives every report by scanning paid orders.
// Fine for a single-terminal deployment; the Postgres repository does
// the same aggregation in SQL.
type InMemoryRepository struct {
	orders   orders.Repository
	payments payment.Repository
	catalog  catalog.Repository
}

func NewInMemoryRepository(ord orders.Repository, pay payment.Repository, cat catalog.Repository) *InMemoryRepository {
	return &InMemoryRepository{orders: ord, payments: pay, catalog: cat}
}

// paidInRange selects paid orders created inside [from, to).
func (r *InMemoryRepository) paidInRange(ctx context.Context, from, to time.Time) ([]*orders.Order, error) {
	paid, err := r.orders.ListByStatus(ctx, orders.StatusPaid)
	if err != nil {
		return nil, err
	}

	var out []*orders.Order
	for _, o := range paid {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	s := &SalesSummary{From: from, To: to, OrderCount: len(paid)}
	for _, o := range paid {
		s.Revenue += o.Total
	}
	if s.OrderCount > 0 {
		s.AverageTicket = cart.Round2(s.Revenue / float64(s.OrderCount))
	}
	s.Revenue = cart.Round2(s.Revenue)
	return s, nil
}

func (r *InMemoryRepository) TopItems(ctx context.Context, from, to time.Time, limit int) ([]ItemSales, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byItem := make(map[string]*ItemSales)
	for _, o := range paid {
		for _, l := range o.Lines {
			row, ok := byItem[l.MenuItemID]
			if !ok {
				row = &ItemSales{MenuItemID: l.MenuItemID, Name: l.Name}
				byItem[l.MenuItemID] = row
			}
			row.Quantity += l.Quantity
			row.Revenue += cart.LineTotal(l)
		}
	}

	out := make([]ItemSales, 0, len(byItem))
	for _, row := range byItem {
		row.Revenue = cart.Round2(row.Revenue)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) ByCategory(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	if categories, err := r.catalog.ListCategories(ctx); err == nil {
		for _, cat := range categories {
			names[cat.ID] = cat.Name
		}
	}

	rows := make(map[string]*BreakdownRow)
	for _, o := range paid {
		seen := make(map[string]bool)
		for _, l := range o.Lines {
			categoryID := ""
			if item, err := r.catalog.GetItem(ctx, l.MenuItemID); err == nil {
				categoryID = item.CategoryID
			}

			row, ok := rows[categoryID]
			if !ok {
				row = &BreakdownRow{Key: categoryID, Label: names[categoryID]}
				rows[categoryID] = row
			}
			row.Revenue += cart.LineTotal(l)
			if !seen[categoryID] {
				row.OrderCount++
				seen[categoryID] = true
			}
		}
	}
	return collect(rows), nil
}

func (r *InMemoryRepository) ByStaff(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.groupBy(ctx, from, to, func(o *orders.Order) string { return o.WaiterID })
}

func (r *InMemoryRepository) ByTable(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	return r.groupBy(ctx, from, to, func(o *orders.Order) string { return o.TableID })
}

func (r *InMemoryRepository) groupBy(ctx context.Context, from, to time.Time, key func(*orders.Order) string) ([]BreakdownRow, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*BreakdownRow)
	for _, o := range paid {
		k := key(o)
		row, ok := rows[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			rows[k] = row
		}
		row.Revenue += o.Total
		row.OrderCount++
	}
	return collect(rows), nil
}

func (r *InMemoryRepository) ByPaymentMethod(ctx context.Context, from, to time.Time) ([]BreakdownRow, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*BreakdownRow)
	for _, o := range paid {
		transactions, err := r.payments.ListByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		for _, t := range transactions {
			for _, leg := range t.Legs {
				if leg.Status != payment.LegSucceeded {
					continue
				}
				row, ok := rows[leg.Method]
				if !ok {
					row = &BreakdownRow{Key: leg.Method}
					rows[leg.Method] = row
				}
				row.Revenue += leg.Amount
				if !seen[leg.Method] {
					row.OrderCount++
					seen[leg.Method] = true
				}
			}
		}
	}
	return collect(rows), nil
}

func (r *InMemoryRepository) DailyTrend(ctx context.Context, from, to time.Time) ([]DailyPoint, error) {
	paid, err := r.paidInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyPoint)
	for _, o := range paid {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		p, ok := byDay[day]
		if !ok {
			p = &DailyPoint{Date: day}
			byDay[day] = p
		}
		p.Revenue += o.Total
		p.OrderCount++
	}

	out := make([]DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		p.Revenue = cart.Round2(p.Revenue)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func collect(rows map[string]*BreakdownRow) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(rows))
	for _, row := range rows {
		row.Revenue = cart.Round2(row.Revenue)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}
