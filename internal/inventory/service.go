package inventory

import (
	"context"
	"errors"
	"log"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/events"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

type Service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher}
}

//
// --------------------------------------------------
// Order deduction
// --------------------------------------------------
//

// ComputeRequirement totals ingredient needs across all lines before
// anything is checked, so two lines sharing an ingredient are judged
// against their combined demand. Items without a recipe consume
// nothing.
func (s *Service) ComputeRequirement(ctx context.Context, lines []*cart.Line) (map[string]float64, error) {
	requirements := make(map[string]float64)
	for _, l := range lines {
		recipe, err := s.repo.GetRecipe(ctx, l.MenuItemID)
		if err != nil {
			return nil, err
		}
		for _, ing := range recipe {
			requirements[ing.ItemID] += ing.Quantity * float64(l.Quantity)
		}
	}
	return requirements, nil
}

// DeductForOrder consumes stock for an order, all or nothing. On a
// shortfall it returns an InsufficientStockError listing every
// blocking ingredient and deducts none of them.
func (s *Service) DeductForOrder(ctx context.Context, orderNumber string, lines []*cart.Line) error {
	requirements, err := s.ComputeRequirement(ctx, lines)
	if err != nil {
		return err
	}
	if len(requirements) == 0 {
		return nil
	}

	shortfalls, err := s.repo.Deduct(ctx, requirements, orderNumber)
	if err != nil {
		return err
	}
	if len(shortfalls) > 0 {
		return &InsufficientStockError{Shortfalls: shortfalls}
	}

	s.checkLevels(ctx, requirements)
	return nil
}

// checkLevels emits low/out-of-stock events for the items a deduction
// touched. Alerting never fails the deduction.
func (s *Service) checkLevels(ctx context.Context, requirements map[string]float64) {
	for itemID := range requirements {
		item, err := s.repo.GetItem(ctx, itemID)
		if err != nil {
			continue
		}
		switch {
		case item.Stock <= 0:
			s.publish(ctx, events.InventoryOutOfStock, item)
		case item.Stock <= item.ReorderLevel:
			s.publish(ctx, events.InventoryLowStock, item)
		}
	}
}

func (s *Service) publish(ctx context.Context, name string, item *Item) {
	err := s.publisher.Publish(ctx, events.Event{
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"item_id":       item.ID,
			"name":          item.Name,
			"stock":         item.Stock,
			"unit":          item.Unit,
			"reorder_level": item.ReorderLevel,
		},
	})
	if err != nil {
		log.Printf("Failed to publish %s event: %v", name, err)
	}
}

//
// --------------------------------------------------
// Items and stock
// --------------------------------------------------
//

func (s *Service) CreateItem(ctx context.Context, item *Item) error {
	if item.Name == "" || item.Unit == "" {
		return errors.New("name and unit are required")
	}
	if item.Stock < 0 {
		return errors.New("stock cannot be negative")
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	return s.repo.SaveItem(ctx, item)
}

func (s *Service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.DeleteItem(ctx, id)
}

// AddStock records a restock delivery.
func (s *Service) AddStock(ctx context.Context, itemID string, quantity float64, reference string) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.move(ctx, itemID, MovementRestock, quantity, reference)
}

// RecordWaste removes spoiled or dropped stock, floored at zero.
func (s *Service) RecordWaste(ctx context.Context, itemID string, quantity float64, reason string) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.move(ctx, itemID, MovementWaste, -quantity, reason)
}

// AdjustStock sets the absolute level after a physical count and
// records the delta as an adjustment movement.
func (s *Service) AdjustStock(ctx context.Context, itemID string, newLevel float64, reason string) (*Item, error) {
	if newLevel < 0 {
		return nil, errors.New("stock cannot be negative")
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	delta := newLevel - item.Stock
	if delta == 0 {
		return item, nil
	}
	return s.move(ctx, itemID, MovementAdjustment, delta, reason)
}

func (s *Service) move(ctx context.Context, itemID, movementType string, delta float64, reference string) (*Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Stock floors at zero; the ledger records the applied delta, not
	// the requested one, so movements always sum to the balance.
	applied := delta
	if item.Stock+delta < 0 {
		applied = -item.Stock
	}
	item.Stock += applied
	item.UpdatedAt = time.Now().UTC()
	if movementType == MovementRestock {
		restocked := item.UpdatedAt
		item.LastRestocked = &restocked
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.RecordMovement(ctx, &Movement{
		ItemID:       itemID,
		Type:         movementType,
		Quantity:     applied,
		BalanceAfter: item.Stock,
		Reference:    reference,
		CreatedAt:    item.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	if item.Stock <= item.ReorderLevel {
		s.publish(ctx, events.InventoryLowStock, item)
	}
	return item, nil
}

func (s *Service) ListMovements(ctx context.Context, itemID string) ([]*Movement, error) {
	return s.repo.ListMovements(ctx, itemID)
}

//
// --------------------------------------------------
// Recipes
// --------------------------------------------------
//

func (s *Service) SetRecipe(ctx context.Context, menuItemID string, ingredients []RecipeIngredient) error {
	for _, ing := range ingredients {
		if ing.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, err := s.repo.GetItem(ctx, ing.ItemID); err != nil {
			return err
		}
	}
	return s.repo.SetRecipe(ctx, menuItemID, ingredients)
}

func (s *Service) GetRecipe(ctx context.Context, menuItemID string) ([]RecipeIngredient, error) {
	return s.repo.GetRecipe(ctx, menuItemID)
}

//
// --------------------------------------------------
// Alerts and reporting
// --------------------------------------------------
//

// LowStockItems lists items at or below their reorder level.
func (s *Service) LowStockItems(ctx context.Context) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Item
	for _, item := range items {
		if item.Stock <= item.ReorderLevel {
			out = append(out, item)
		}
	}
	return out, nil
}

// ReorderSuggestions proposes enough stock to reach twice the reorder
// level for every item at or below it.
func (s *Service) ReorderSuggestions(ctx context.Context) ([]ReorderSuggestion, error) {
	low, err := s.LowStockItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ReorderSuggestion, 0, len(low))
	for _, item := range low {
		out = append(out, ReorderSuggestion{
			Item:              item,
			SuggestedQuantity: item.ReorderLevel*2 - item.Stock,
		})
	}
	return out, nil
}

// ExpiringItems lists items whose expiry date falls within the window.
func (s *Service) ExpiringItems(ctx context.Context, within time.Duration) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(within)
	var out []*Item
	for _, item := range items {
		if item.ExpiryDate != nil && !item.ExpiryDate.After(cutoff) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Valuation totals stock on hand at cost.
func (s *Service) Valuation(ctx context.Context) (float64, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range items {
		total += item.Stock * item.CostPerUnit
	}
	return total, nil
}

//
// --------------------------------------------------
// Suppliers
// --------------------------------------------------
//

func (s *Service) CreateSupplier(ctx context.Context, sup *Supplier) error {
	if sup.Name == "" {
		return errors.New("supplier name is required")
	}
	sup.CreatedAt = time.Now().UTC()
	return s.repo.SaveSupplier(ctx, sup)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}
