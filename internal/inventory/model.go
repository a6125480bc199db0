package inventory

import (
	"fmt"
	"strings"
	"time"
)

// Stock movement types.
const (
	MovementDeduction  = "deduction"
	MovementRestock    = "restock"
	MovementAdjustment = "adjustment"
	MovementWaste      = "waste"
)

// Item is a tracked ingredient. Stock is in the item's own unit
// (kg, l, pcs) and never goes negative.
type Item struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Unit          string     `json:"unit"`
	Stock         float64    `json:"stock"`
	ReorderLevel  float64    `json:"reorder_level"`
	CostPerUnit   float64    `json:"cost_per_unit"`
	SupplierID    string     `json:"supplier_id,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeIngredient maps one menu item to the quantity of one
// ingredient consumed per dish.
type RecipeIngredient struct {
	MenuItemID string  `json:"menu_item_id"`
	ItemID     string  `json:"item_id"`
	Quantity   float64 `json:"quantity"`
}

// Movement is one audit entry against an item's stock. Quantity is
// signed: deductions and waste are negative, restocks positive.
// BalanceAfter is the stock level the movement left behind, so the
// ledger replays to the current balance.
type Movement struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	Type         string    `json:"type"`
	Quantity     float64   `json:"quantity"`
	BalanceAfter float64   `json:"balance_after"`
	Reference    string    `json:"reference"`
	CreatedAt    time.Time `json:"created_at"`
}

// Shortfall reports one ingredient that blocks an order.
type Shortfall struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Shortage  float64 `json:"shortage"`
}

// InsufficientStockError carries the full shortfall report for an
// order that could not be covered. Nothing was deducted.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (need %.2f %s, have %.2f)", s.Name, s.Required, s.Unit, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

// ReorderSuggestion proposes a restock quantity for an item at or
// below its reorder level.
type ReorderSuggestion struct {
	Item              *Item   `json:"item"`
	SuggestedQuantity float64 `json:"suggested_quantity"`
}
