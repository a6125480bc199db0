package cart

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotalsWithPercentageDiscount(t *testing.T) {
	// 24.00 + 5.00 = 29.00 subtotal
	lines := []*Line{
		{MenuItemID: "pizza", UnitPrice: 12.00, Quantity: 2},
		{MenuItemID: "soda", UnitPrice: 2.50, Quantity: 2},
	}
	discount := &Discount{Type: DiscountPercentage, Value: 10}

	got := ComputeTotals(lines, discount, 0.08, 0.10)

	if !almostEqual(got.Subtotal, 29.00) {
		t.Fatalf("subtotal = %v, want 29.00", got.Subtotal)
	}
	if !almostEqual(got.DiscountAmount, 2.90) {
		t.Errorf("discount = %v, want 2.90", got.DiscountAmount)
	}
	if !almostEqual(got.TaxableBase, 26.10) {
		t.Errorf("taxable base = %v, want 26.10", got.TaxableBase)
	}
	if !almostEqual(got.Tax, 2.088) {
		t.Errorf("tax = %v, want 2.088", got.Tax)
	}
	if !almostEqual(got.ServiceCharge, 2.61) {
		t.Errorf("service charge = %v, want 2.61", got.ServiceCharge)
	}
	if !almostEqual(got.Total, 30.798) {
		t.Errorf("total = %v, want 30.798", got.Total)
	}
}

func TestComputeTotalsModifiersMultiplyByQuantity(t *testing.T) {
	lines := []*Line{
		{
			MenuItemID: "burger",
			UnitPrice:  8.00,
			Quantity:   3,
			Modifiers: []Modifier{
				{ID: "cheese", Price: 1.50},
				{ID: "bacon", Price: 2.00},
			},
		},
	}

	got := ComputeTotals(lines, nil, 0, 0)

	// (8.00 + 1.50 + 2.00) * 3
	if !almostEqual(got.Subtotal, 34.50) {
		t.Fatalf("subtotal = %v, want 34.50", got.Subtotal)
	}
	if !almostEqual(got.Total, 34.50) {
		t.Errorf("total = %v, want 34.50", got.Total)
	}
}

func TestComputeTotalsFixedDiscountCappedAtSubtotal(t *testing.T) {
	lines := []*Line{{MenuItemID: "tea", UnitPrice: 3.00, Quantity: 1}}
	discount := &Discount{Type: DiscountFixed, Value: 50}

	got := ComputeTotals(lines, discount, 0.08, 0.10)

	if !almostEqual(got.DiscountAmount, 3.00) {
		t.Errorf("discount = %v, want capped at 3.00", got.DiscountAmount)
	}
	if !almostEqual(got.Total, 0) {
		t.Errorf("total = %v, want 0 when discount consumes the subtotal", got.Total)
	}
}

func TestComputeTotalsTaxAppliesAfterDiscount(t *testing.T) {
	lines := []*Line{{MenuItemID: "steak", UnitPrice: 100, Quantity: 1}}
	discount := &Discount{Type: DiscountFixed, Value: 20}

	got := ComputeTotals(lines, discount, 0.10, 0)

	// Tax on 80, not on 100.
	if !almostEqual(got.Tax, 8.00) {
		t.Errorf("tax = %v, want 8.00 on the discounted base", got.Tax)
	}
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	got := ComputeTotals(nil, nil, 0.08, 0.10)
	if got.Total != 0 || got.Subtotal != 0 {
		t.Errorf("empty cart totals = %+v, want all zero", got)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{30.798, 30.80},
		{2.088, 2.09},
		{1.005, 1.0}, // binary representation of 1.005 sits just below the half
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
