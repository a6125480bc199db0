package cart

import "math"

// LineTotal is unitPrice*qty plus each modifier's per-unit delta
// multiplied by the line quantity.
func LineTotal(l *Line) float64 {
	total := l.UnitPrice * float64(l.Quantity)
	for _, m := range l.Modifiers {
		total += m.Price * float64(l.Quantity)
	}
	return total
}

// ComputeTotals derives the pricing breakdown in a fixed order:
// line totals, subtotal, discount (capped at subtotal), taxable base,
// then tax and service charge on the discounted base.
func ComputeTotals(lines []*Line, discount *Discount, taxRate, serviceChargeRate float64) Totals {
	var subtotal float64
	for _, l := range lines {
		subtotal += LineTotal(l)
	}

	var discountAmount float64
	if discount != nil {
		switch discount.Type {
		case DiscountPercentage:
			discountAmount = subtotal * (discount.Value / 100)
		case DiscountFixed:
			discountAmount = discount.Value
		}
		if discountAmount > subtotal {
			discountAmount = subtotal
		}
	}

	taxableBase := subtotal - discountAmount
	tax := taxableBase * taxRate
	serviceCharge := taxableBase * serviceChargeRate

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		Tax:            tax,
		ServiceCharge:  serviceCharge,
		Total:          taxableBase + tax + serviceCharge,
	}
}

// Round2 rounds to cents. Presentation only — never applied to
// intermediate steps.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rounded returns a presentation copy with every field rounded to cents.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:       Round2(t.Subtotal),
		DiscountAmount: Round2(t.DiscountAmount),
		TaxableBase:    Round2(t.TaxableBase),
		Tax:            Round2(t.Tax),
		ServiceCharge:  Round2(t.ServiceCharge),
		Total:          Round2(t.Total),
	}
}
