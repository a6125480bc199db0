package reports

import (
	"context"
	"testing"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/catalog"
	"rasoi/internal/orders"
	"rasoi/internal/payment"
)

type fixture struct {
	repo     *InMemoryRepository
	orders   *orders.InMemoryRepository
	payments *payment.InMemoryRepository
	catalog  *catalog.InMemoryRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:   orders.NewInMemoryRepository(),
		payments: payment.NewInMemoryRepository(),
		catalog:  catalog.NewInMemoryRepository(),
	}
	f.repo = NewInMemoryRepository(f.orders, f.payments, f.catalog)
	return f
}

// paidOrder seeds a paid order with one line and a matching cash
// transaction.
func (f *fixture) paidOrder(t *testing.T, day time.Time, itemID, itemName string, qty int, unitPrice float64, waiterID string) {
	t.Helper()
	ctx := context.Background()

	o := &orders.Order{
		Status:   orders.StatusPaid,
		WaiterID: waiterID,
		Lines: []*cart.Line{
			{ID: itemID + "-line", MenuItemID: itemID, Name: itemName, UnitPrice: unitPrice, Quantity: qty},
		},
		CreatedAt: day,
		UpdatedAt: day,
	}
	o.Recompute()
	if err := f.orders.Create(ctx, o); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	tx := &payment.Transaction{
		OrderID:    o.ID,
		Status:     payment.StatusCompleted,
		AmountDue:  o.Total,
		AmountPaid: o.Total,
		Legs: []payment.Leg{
			{Method: payment.MethodCash, Amount: o.Total, Status: payment.LegSucceeded},
		},
		CreatedAt: day,
	}
	if err := f.payments.Create(ctx, tx); err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t.Add(12 * time.Hour)
}

func TestSummaryCountsOnlyPaidOrdersInRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-01"), "pizza", "Margherita", 2, 12, "w1")
	f.paidOrder(t, day("2026-08-02"), "soda", "Cola", 4, 2.5, "w2")
	f.paidOrder(t, day("2026-09-15"), "pizza", "Margherita", 1, 12, "w1") // outside range

	// An open order must not count.
	open := &orders.Order{
		Status:    orders.StatusServed,
		Lines:     []*cart.Line{{ID: "x", MenuItemID: "pizza", UnitPrice: 100, Quantity: 1}},
		CreatedAt: day("2026-08-01"),
	}
	open.Recompute()
	f.orders.Create(ctx, open)

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	s, err := f.repo.Summary(ctx, from, to)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if s.OrderCount != 2 {
		t.Errorf("order count = %d, want 2", s.OrderCount)
	}
	if s.Revenue != 34.00 {
		t.Errorf("revenue = %v, want 34.00", s.Revenue)
	}
	if s.AverageTicket != 17.00 {
		t.Errorf("average ticket = %v, want 17.00", s.AverageTicket)
	}
}

func TestTopItemsRanksByQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-01"), "soda", "Cola", 5, 2.5, "w1")
	f.paidOrder(t, day("2026-08-02"), "pizza", "Margherita", 2, 12, "w1")
	f.paidOrder(t, day("2026-08-03"), "soda", "Cola", 3, 2.5, "w2")

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	top, err := f.repo.TopItems(ctx, from, to, 10)
	if err != nil {
		t.Fatalf("top items: %v", err)
	}

	if len(top) != 2 {
		t.Fatalf("items = %d, want 2", len(top))
	}
	if top[0].MenuItemID != "soda" || top[0].Quantity != 8 {
		t.Errorf("top item = %+v, want soda x8", top[0])
	}
	if top[1].Revenue != 24.00 {
		t.Errorf("pizza revenue = %v, want 24.00", top[1].Revenue)
	}
}

func TestTopItemsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-01"), "a", "A", 3, 1, "w1")
	f.paidOrder(t, day("2026-08-01"), "b", "B", 2, 1, "w1")
	f.paidOrder(t, day("2026-08-01"), "c", "C", 1, 1, "w1")

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	top, _ := f.repo.TopItems(ctx, from, to, 2)
	if len(top) != 2 {
		t.Errorf("items = %d, want limit 2", len(top))
	}
}

func TestByStaffBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-01"), "pizza", "Margherita", 1, 12, "alice")
	f.paidOrder(t, day("2026-08-02"), "pizza", "Margherita", 2, 12, "alice")
	f.paidOrder(t, day("2026-08-03"), "soda", "Cola", 1, 2.5, "bob")

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	rows, err := f.repo.ByStaff(ctx, from, to)
	if err != nil {
		t.Fatalf("by staff: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Key != "alice" || rows[0].OrderCount != 2 || rows[0].Revenue != 36.00 {
		t.Errorf("top row = %+v, want alice with 2 orders and 36.00", rows[0])
	}
}

func TestByPaymentMethodUsesSucceededLegs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-01"), "pizza", "Margherita", 1, 20, "w1")

	// Add a mixed transaction on a second order: card 15 + failed cash.
	o := &orders.Order{
		Status:    orders.StatusPaid,
		Lines:     []*cart.Line{{ID: "l", MenuItemID: "soda", Name: "Cola", UnitPrice: 15, Quantity: 1}},
		CreatedAt: day("2026-08-02"),
	}
	o.Recompute()
	f.orders.Create(ctx, o)
	f.payments.Create(ctx, &payment.Transaction{
		OrderID: o.ID,
		Status:  payment.StatusCompleted,
		Legs: []payment.Leg{
			{Method: payment.MethodCard, Amount: 15, Status: payment.LegSucceeded},
			{Method: payment.MethodCash, Amount: 5, Status: payment.LegFailed},
		},
		CreatedAt: day("2026-08-02"),
	})

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	rows, err := f.repo.ByPaymentMethod(ctx, from, to)
	if err != nil {
		t.Fatalf("by method: %v", err)
	}

	byKey := map[string]BreakdownRow{}
	for _, row := range rows {
		byKey[row.Key] = row
	}
	if byKey[payment.MethodCash].Revenue != 20.00 {
		t.Errorf("cash revenue = %v, want 20.00 (failed leg excluded)", byKey[payment.MethodCash].Revenue)
	}
	if byKey[payment.MethodCard].Revenue != 15.00 {
		t.Errorf("card revenue = %v, want 15.00", byKey[payment.MethodCard].Revenue)
	}
}

func TestDailyTrendOrderedByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.paidOrder(t, day("2026-08-03"), "pizza", "Margherita", 1, 12, "w1")
	f.paidOrder(t, day("2026-08-01"), "soda", "Cola", 2, 2.5, "w1")
	f.paidOrder(t, day("2026-08-01"), "pizza", "Margherita", 1, 12, "w1")

	from, _ := time.Parse("2006-01-02", "2026-08-01")
	to, _ := time.Parse("2006-01-02", "2026-09-01")

	points, err := f.repo.DailyTrend(ctx, from, to)
	if err != nil {
		t.Fatalf("trend: %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Date != "2026-08-01" || points[0].OrderCount != 2 {
		t.Errorf("first point = %+v, want 2026-08-01 with 2 orders", points[0])
	}
	if points[0].Revenue != 17.00 {
		t.Errorf("first day revenue = %v, want 17.00", points[0].Revenue)
	}
}
