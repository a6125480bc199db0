package cart

import (
	"context"
	"errors"
	"testing"

	"rasoi/internal/catalog"
)

func seedCatalog(t *testing.T) *catalog.Service {
	t.Helper()

	repo := catalog.NewInMemoryRepository()
	svc := catalog.NewService(repo, nil)
	ctx := context.Background()

	for _, item := range []*catalog.MenuItem{
		{ID: "pizza", Name: "Margherita", Price: 12.00},
		{ID: "soda", Name: "Cola", Price: 2.50},
	} {
		if err := svc.CreateMenuItem(ctx, item); err != nil {
			t.Fatalf("seed item %s: %v", item.ID, err)
		}
	}
	if _, err := svc.AddModifier(ctx, "pizza", "Extra cheese", 1.50); err != nil {
		t.Fatalf("seed modifier: %v", err)
	}
	return svc
}

func TestAddLineMergesSameItemAndModifiers(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)
	ctx := context.Background()

	if _, err := store.AddLine(ctx, "s1", "pizza", 1, nil, ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := store.AddLine(ctx, "s1", "pizza", 2, nil, ""); err != nil {
		t.Fatalf("second add: %v", err)
	}

	snapshot, _ := store.Snapshot("s1")
	if len(snapshot.Lines) != 1 {
		t.Fatalf("lines = %d, want merged into 1", len(snapshot.Lines))
	}
	if snapshot.Lines[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", snapshot.Lines[0].Quantity)
	}
}

func TestAddLineDifferentModifiersStaysSeparate(t *testing.T) {
	cat := seedCatalog(t)
	store := NewStore(cat, 0.08, 0.10)
	ctx := context.Background()

	mods, err := cat.ListModifiers(ctx, "pizza")
	if err != nil || len(mods) == 0 {
		t.Fatalf("list modifiers: %v", err)
	}

	if _, err := store.AddLine(ctx, "s1", "pizza", 1, nil, ""); err != nil {
		t.Fatalf("plain add: %v", err)
	}
	if _, err := store.AddLine(ctx, "s1", "pizza", 1, []string{mods[0].ID}, ""); err != nil {
		t.Fatalf("modified add: %v", err)
	}

	snapshot, _ := store.Snapshot("s1")
	if len(snapshot.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 separate lines", len(snapshot.Lines))
	}
}

func TestAddLineRejectsNonPositiveQuantity(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)
	ctx := context.Background()

	for _, qty := range []int{0, -1} {
		if _, err := store.AddLine(ctx, "s1", "pizza", qty, nil, ""); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddLine(qty=%d) err = %v, want ErrInvalidQuantity", qty, err)
		}
	}
}

func TestAddLineRejectsUnavailableItem(t *testing.T) {
	cat := seedCatalog(t)
	store := NewStore(cat, 0.08, 0.10)
	ctx := context.Background()

	if _, err := cat.ToggleAvailability(ctx, "soda"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := store.AddLine(ctx, "s1", "soda", 1, nil, ""); !errors.Is(err, ErrItemUnavailable) {
		t.Errorf("err = %v, want ErrItemUnavailable", err)
	}
}

func TestSetLineQuantityZeroRemovesLine(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)
	ctx := context.Background()

	line, err := store.AddLine(ctx, "s1", "pizza", 2, nil, "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.SetLineQuantity("s1", line.ID, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	snapshot, _ := store.Snapshot("s1")
	if len(snapshot.Lines) != 0 {
		t.Errorf("lines = %d, want 0 after zero quantity", len(snapshot.Lines))
	}
}

func TestApplyDiscountValidation(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)

	cases := []struct {
		name string
		d    Discount
		want error
	}{
		{"over 100 percent", Discount{Type: DiscountPercentage, Value: 120}, ErrDiscountTooLarge},
		{"zero percent", Discount{Type: DiscountPercentage, Value: 0}, ErrDiscountTooLarge},
		{"negative fixed", Discount{Type: DiscountFixed, Value: -5}, ErrDiscountTooLarge},
		{"unknown type", Discount{Type: "bogus", Value: 10}, ErrUnknownDiscount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.ApplyDiscount("s1", tc.d); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if err := store.ApplyDiscount("s1", Discount{Type: DiscountPercentage, Value: 15}); err != nil {
		t.Errorf("valid discount rejected: %v", err)
	}
}

func TestCheckoutDestroysCart(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)
	ctx := context.Background()

	if _, err := store.AddLine(ctx, "s1", "pizza", 1, nil, ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	lines, _, totals, err := store.Checkout("s1")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if totals.Subtotal != 12.00 {
		t.Errorf("subtotal = %v, want 12.00", totals.Subtotal)
	}

	if _, _, _, err := store.Checkout("s1"); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("second checkout err = %v, want ErrEmptyCart", err)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(seedCatalog(t), 0.08, 0.10)
	ctx := context.Background()

	if _, err := store.AddLine(ctx, "terminal-a", "pizza", 1, nil, ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	snapshot, _ := store.Snapshot("terminal-b")
	if len(snapshot.Lines) != 0 {
		t.Errorf("terminal-b sees %d lines from terminal-a", len(snapshot.Lines))
	}
}
