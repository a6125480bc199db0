package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/events"
)

func newTestService(t *testing.T) (*Service, *events.MemoryPublisher) {
	t.Helper()
	pub := events.NewMemoryPublisher()
	return NewService(NewInMemoryRepository(), pub), pub
}

func seedItem(t *testing.T, svc *Service, id, name string, stock, reorder float64) {
	t.Helper()
	item := &Item{ID: id, Name: name, Unit: "kg", Stock: stock, ReorderLevel: reorder}
	if err := svc.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestDeductForOrderShortfallReportsAndDeductsNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 2.0, 0.5)
	if err := svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "flour", Quantity: 1.0}}); err != nil {
		t.Fatalf("set recipe: %v", err)
	}

	// Three pizzas need 3kg, only 2kg on hand.
	lines := []*cart.Line{{MenuItemID: "pizza", Quantity: 3}}
	err := svc.DeductForOrder(ctx, "ORD-0001", lines)

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if len(insufficient.Shortfalls) != 1 {
		t.Fatalf("shortfalls = %d, want 1", len(insufficient.Shortfalls))
	}

	sf := insufficient.Shortfalls[0]
	if sf.Required != 3.0 || sf.Available != 2.0 || sf.Shortage != 1.0 {
		t.Errorf("shortfall = %+v, want required 3.0 available 2.0 shortage 1.0", sf)
	}

	item, _ := svc.GetItem(ctx, "flour")
	if item.Stock != 2.0 {
		t.Errorf("stock = %v, want untouched 2.0", item.Stock)
	}
}

func TestDeductForOrderAllOrNothingAcrossIngredients(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 10, 1)
	seedItem(t, svc, "cheese", "Cheese", 0.1, 1)
	if err := svc.SetRecipe(ctx, "pizza", []RecipeIngredient{
		{ItemID: "flour", Quantity: 0.5},
		{ItemID: "cheese", Quantity: 0.2},
	}); err != nil {
		t.Fatalf("set recipe: %v", err)
	}

	err := svc.DeductForOrder(ctx, "ORD-0001", []*cart.Line{{MenuItemID: "pizza", Quantity: 1}})

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	// Flour was plentiful but must not be consumed either.
	flour, _ := svc.GetItem(ctx, "flour")
	if flour.Stock != 10 {
		t.Errorf("flour stock = %v, want untouched 10", flour.Stock)
	}
}

func TestDeductForOrderCombinesLinesSharingIngredient(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "cheese", "Cheese", 1.0, 0.1)
	svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "cheese", Quantity: 0.4}})
	svc.SetRecipe(ctx, "lasagna", []RecipeIngredient{{ItemID: "cheese", Quantity: 0.4}})

	// Each line alone fits, combined they need 1.2kg of 1.0kg.
	err := svc.DeductForOrder(ctx, "ORD-0001", []*cart.Line{
		{MenuItemID: "pizza", Quantity: 2},
		{MenuItemID: "lasagna", Quantity: 1},
	})

	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientStockError for combined demand", err)
	}
}

func TestDeductForOrderSuccessRecordsMovements(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 5, 1)
	svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "flour", Quantity: 0.5}})

	if err := svc.DeductForOrder(ctx, "ORD-0042", []*cart.Line{{MenuItemID: "pizza", Quantity: 4}}); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	item, _ := svc.GetItem(ctx, "flour")
	if item.Stock != 3 {
		t.Errorf("stock = %v, want 3", item.Stock)
	}

	movements, _ := svc.ListMovements(ctx, "flour")
	if len(movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movements))
	}
	m := movements[0]
	if m.Type != MovementDeduction || m.Quantity != -2 || m.Reference != "ORD-0042" {
		t.Errorf("movement = %+v, want deduction of -2 referencing ORD-0042", m)
	}
	if m.BalanceAfter != 3 {
		t.Errorf("balance after = %v, want 3", m.BalanceAfter)
	}
}

func TestDeductForOrderItemsWithoutRecipeConsumeNothing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 5, 1)

	if err := svc.DeductForOrder(ctx, "ORD-0001", []*cart.Line{{MenuItemID: "bottled-water", Quantity: 10}}); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	item, _ := svc.GetItem(ctx, "flour")
	if item.Stock != 5 {
		t.Errorf("stock = %v, want untouched 5", item.Stock)
	}
}

func TestLowStockEventAfterDeduction(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 2.0, 1.5)
	svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "flour", Quantity: 1.0}})

	if err := svc.DeductForOrder(ctx, "ORD-0001", []*cart.Line{{MenuItemID: "pizza", Quantity: 1}}); err != nil {
		t.Fatalf("deduct: %v", err)
	}

	if got := pub.ByName(events.InventoryLowStock); len(got) != 1 {
		t.Errorf("low_stock events = %d, want 1", len(got))
	}
}

func TestRestockWasteAndAdjust(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 5, 1)

	restocked, err := svc.AddStock(ctx, "flour", 3, "PO-77")
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if restocked.LastRestocked == nil {
		t.Error("restock did not set last restocked")
	}
	if _, err := svc.RecordWaste(ctx, "flour", 1, "dropped bag"); err != nil {
		t.Fatalf("waste: %v", err)
	}
	item, err := svc.AdjustStock(ctx, "flour", 6.5, "monthly count")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Stock != 6.5 {
		t.Errorf("stock = %v, want 6.5", item.Stock)
	}
	if item.LastRestocked == nil || !item.LastRestocked.Equal(*restocked.LastRestocked) {
		t.Error("waste or adjustment moved last restocked")
	}

	movements, _ := svc.ListMovements(ctx, "flour")
	if len(movements) != 3 {
		t.Fatalf("movements = %d, want 3", len(movements))
	}
	types := map[string]bool{}
	for _, m := range movements {
		types[m.Type] = true
	}
	for _, want := range []string{MovementRestock, MovementWaste, MovementAdjustment} {
		if !types[want] {
			t.Errorf("missing %s movement", want)
		}
	}
}

func TestWasteBeyondStockClampsLedger(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "milk", "Milk", 2, 1)

	item, err := svc.RecordWaste(ctx, "milk", 5, "spoiled crate")
	if err != nil {
		t.Fatalf("waste: %v", err)
	}
	if item.Stock != 0 {
		t.Errorf("stock = %v, want floored at 0", item.Stock)
	}

	// The ledger records what actually left, so it still sums to the
	// balance.
	movements, _ := svc.ListMovements(ctx, "milk")
	if len(movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movements))
	}
	if movements[0].Quantity != -2 || movements[0].BalanceAfter != 0 {
		t.Errorf("movement = %+v, want quantity -2 with balance 0", movements[0])
	}
}

func TestStockOperationsRejectBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 5, 1)

	if _, err := svc.AddStock(ctx, "flour", -1, ""); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("negative restock err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := svc.AdjustStock(ctx, "flour", -2, ""); err == nil {
		t.Error("negative adjust accepted")
	}
	if _, err := svc.AddStock(ctx, "missing", 1, ""); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("missing item err = %v, want ErrItemNotFound", err)
	}
}

func TestReorderSuggestions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 1, 2) // below reorder
	seedItem(t, svc, "sugar", "Sugar", 9, 2) // healthy

	suggestions, err := svc.ReorderSuggestions(ctx)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	if suggestions[0].Item.ID != "flour" || suggestions[0].SuggestedQuantity != 3 {
		t.Errorf("suggestion = %+v, want flour qty 3", suggestions[0])
	}
}

func TestExpiringItemsAndValuation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	soon := time.Now().UTC().Add(48 * time.Hour)
	later := time.Now().UTC().Add(30 * 24 * time.Hour)

	milk := &Item{ID: "milk", Name: "Milk", Unit: "l", Stock: 4, CostPerUnit: 1.25, ExpiryDate: &soon}
	rice := &Item{ID: "rice", Name: "Rice", Unit: "kg", Stock: 10, CostPerUnit: 2.00, ExpiryDate: &later}
	for _, item := range []*Item{milk, rice} {
		if err := svc.CreateItem(ctx, item); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	expiring, err := svc.ExpiringItems(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(expiring) != 1 || expiring[0].ID != "milk" {
		t.Errorf("expiring = %+v, want just milk", expiring)
	}

	total, err := svc.Valuation(ctx)
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if total != 25.00 {
		t.Errorf("valuation = %v, want 25.00", total)
	}
}

func TestSetRecipeValidatesIngredients(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seedItem(t, svc, "flour", "Flour", 5, 1)

	if err := svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "flour", Quantity: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity err = %v, want ErrInvalidQuantity", err)
	}
	if err := svc.SetRecipe(ctx, "pizza", []RecipeIngredient{{ItemID: "unknown", Quantity: 1}}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown ingredient err = %v, want ErrItemNotFound", err)
	}
}
