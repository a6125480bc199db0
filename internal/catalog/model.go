package catalog

// Category groups menu items for the POS grid.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// MenuItem is a sellable item. Station is the kitchen work-center
// its preparation is routed to.
type MenuItem struct {
	ID              string  `json:"id"`
	CategoryID      string  `json:"category_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Available       bool    `json:"available"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	Station         string  `json:"station"`
	ImageURL        string  `json:"image_url,omitempty"`
}

// Modifier is a priced add-on attached to a menu item selection.
// PriceDelta is additive per ordered unit.
type Modifier struct {
	ID         string  `json:"id"`
	ItemID     string  `json:"item_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}
