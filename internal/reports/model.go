package reports

import "time"

// SalesSummary is the headline range report: what came in, how many
// orders, and the average ticket.
type SalesSummary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	Revenue       float64   `json:"revenue"`
	OrderCount    int       `json:"order_count"`
	AverageTicket float64   `json:"average_ticket"`
}

// ItemSales ranks one menu item by units sold.
type ItemSales struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

// BreakdownRow is one bucket of a grouped revenue report. Key is the
// group value: a category name, staff id, table id or payment method.
type BreakdownRow struct {
	Key        string  `json:"key"`
	Label      string  `json:"label,omitempty"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}

// DailyPoint is one day on the revenue trend line.
type DailyPoint struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count"`
}
