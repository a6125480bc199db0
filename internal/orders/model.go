package orders

import (
	"time"

	"rasoi/internal/cart"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusServed    = "served"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Order types.
const (
	TypeDineIn   = "dine_in"
	TypeTakeout  = "takeout"
	TypeDelivery = "delivery"
	TypePickup   = "pickup"
)

// TimelineEntry records one status change. The timeline is append-only
// and never reordered; it is the audit view of the order.
type TimelineEntry struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp"`
}

// Order is the aggregate owned by the lifecycle store. Lines are a
// snapshot of the cart with resolved prices, so later catalog price
// changes never touch historical orders.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number"`

	// IdempotencyKey is the client-generated token that created this
	// order; retried creates with the same key return this order.
	IdempotencyKey string `json:"-"`

	TableID  string `json:"table_id,omitempty"`
	WaiterID string `json:"waiter_id,omitempty"`
	Type     string `json:"type"`
	Status   string `json:"status"`

	Lines    []*cart.Line   `json:"lines"`
	Discount *cart.Discount `json:"discount,omitempty"`

	// Rates are frozen at creation so recomputation after split/merge
	// uses the rates the order was sold under.
	TaxRate           float64 `json:"tax_rate"`
	ServiceChargeRate float64 `json:"service_charge_rate"`

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Tax            float64 `json:"tax"`
	ServiceCharge  float64 `json:"service_charge"`
	Total          float64 `json:"total"`

	Timeline []TimelineEntry `json:"timeline"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recompute rebuilds the money fields from the current lines. Used
// after split/merge and line edits.
func (o *Order) Recompute() {
	t := cart.ComputeTotals(o.Lines, o.Discount, o.TaxRate, o.ServiceChargeRate)
	o.Subtotal = t.Subtotal
	o.DiscountAmount = t.DiscountAmount
	o.Tax = t.Tax
	o.ServiceCharge = t.ServiceCharge
	o.Total = t.Total
}

// Active reports whether the order still needs kitchen or floor
// attention.
func (o *Order) Active() bool {
	switch o.Status {
	case StatusPending, StatusPreparing, StatusReady:
		return true
	}
	return false
}
