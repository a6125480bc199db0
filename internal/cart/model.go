package cart

// Modifier is a priced add-on snapshotted onto a cart line. Price is
// the per-unit delta at the moment the line was added.
type Modifier struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Line is one cart entry. Lines with the same menu item and the same
// modifier set are merged; a different modifier set gets its own line.
type Line struct {
	ID         string     `json:"id"`
	MenuItemID string     `json:"menu_item_id"`
	Name       string     `json:"name"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	Modifiers  []Modifier `json:"modifiers"`
	Note       string     `json:"note"`
}

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Discount struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Totals is the derived pricing breakdown. Intermediate arithmetic is
// plain floating point; rounding happens at presentation only.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableBase    float64 `json:"taxable_base"`
	Tax            float64 `json:"tax"`
	ServiceCharge  float64 `json:"service_charge"`
	Total          float64 `json:"total"`
}

// Cart is owned by a single checkout session. It is destroyed on
// checkout or clear.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []*Line   `json:"lines"`
	Discount  *Discount `json:"discount,omitempty"`
}
