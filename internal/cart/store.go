package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"rasoi/internal/catalog"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrUnknownLine      = errors.New("cart line not found")
	ErrUnknownDiscount  = errors.New("unknown discount type")
	ErrDiscountTooLarge = errors.New("discount exceeds allowed cap")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrItemUnavailable  = errors.New("menu item is not available")
)

// MaxPercentageDiscount caps percentage discounts a cashier may apply.
const MaxPercentageDiscount = 100

// Catalog is what the cart needs from the menu: current prices and
// valid modifiers.
type Catalog interface {
	GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error)
	ListModifiers(ctx context.Context, itemID string) ([]*catalog.Modifier, error)
}

// Store holds one cart per checkout session. Each cart has a single
// writer (the session), but sessions run on concurrent requests, so
// the map and each mutation are mutex-guarded.
type Store struct {
	mu                sync.Mutex
	carts             map[string]*Cart
	catalog           Catalog
	taxRate           float64
	serviceChargeRate float64
}

func NewStore(cat Catalog, taxRate, serviceChargeRate float64) *Store {
	return &Store{
		carts:             make(map[string]*Cart),
		catalog:           cat,
		taxRate:           taxRate,
		serviceChargeRate: serviceChargeRate,
	}
}

func (s *Store) get(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{SessionID: sessionID}
		s.carts[sessionID] = c
	}
	return c
}

// AddLine resolves the item and modifiers against the catalog and adds
// them to the session's cart. An existing line with the same item and
// the exact same modifier set absorbs the quantity instead.
func (s *Store) AddLine(ctx context.Context, sessionID, menuItemID string, quantity int, modifierIDs []string, note string) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.catalog.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, ErrItemUnavailable
	}

	mods, err := s.resolveModifiers(ctx, menuItemID, modifierIDs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(sessionID)
	for _, l := range c.Lines {
		if l.MenuItemID == menuItemID && sameModifiers(l.Modifiers, mods) {
			l.Quantity += quantity
			return l, nil
		}
	}

	line := &Line{
		ID:         uuid.New().String(),
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
		Modifiers:  mods,
		Note:       note,
	}
	c.Lines = append(c.Lines, line)
	return line, nil
}

func (s *Store) resolveModifiers(ctx context.Context, itemID string, ids []string) ([]Modifier, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	available, err := s.catalog.ListModifiers(ctx, itemID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*catalog.Modifier, len(available))
	for _, m := range available {
		byID[m.ID] = m
	}

	mods := make([]Modifier, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, errors.New("modifier not compatible with item: " + id)
		}
		mods = append(mods, Modifier{ID: m.ID, Name: m.Name, Price: m.PriceDelta})
	}
	// Order of chosen modifiers is irrelevant; keep them canonical.
	sort.Slice(mods, func(i, j int) bool { return mods[i].ID < mods[j].ID })
	return mods, nil
}

func sameModifiers(a, b []Modifier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func (s *Store) RemoveLine(sessionID, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(sessionID)
	for i, l := range c.Lines {
		if l.ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrUnknownLine
}

// SetLineQuantity updates a line; a quantity of zero or less removes it.
func (s *Store) SetLineQuantity(sessionID, lineID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(sessionID)
	for i, l := range c.Lines {
		if l.ID == lineID {
			if quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			} else {
				l.Quantity = quantity
			}
			return nil
		}
	}
	return ErrUnknownLine
}

// ApplyDiscount validates and sets the cart's single discount. A bad
// discount leaves the cart untouched.
func (s *Store) ApplyDiscount(sessionID string, d Discount) error {
	switch d.Type {
	case DiscountPercentage:
		if d.Value <= 0 || d.Value > MaxPercentageDiscount {
			return ErrDiscountTooLarge
		}
	case DiscountFixed:
		if d.Value <= 0 {
			return ErrDiscountTooLarge
		}
	default:
		return ErrUnknownDiscount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(sessionID).Discount = &d
	return nil
}

func (s *Store) RemoveDiscount(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(sessionID).Discount = nil
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
}

// Snapshot returns a copy of the cart plus its totals.
func (s *Store) Snapshot(sessionID string) (*Cart, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(sessionID)
	cp := &Cart{SessionID: c.SessionID, Discount: c.Discount}
	for _, l := range c.Lines {
		lc := *l
		lc.Modifiers = append([]Modifier(nil), l.Modifiers...)
		cp.Lines = append(cp.Lines, &lc)
	}
	return cp, ComputeTotals(cp.Lines, cp.Discount, s.taxRate, s.serviceChargeRate)
}

// Checkout hands the cart's lines and totals to the caller and
// destroys the cart. Returns an error on an empty cart.
func (s *Store) Checkout(sessionID string) ([]*Line, *Discount, Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(sessionID)
	if len(c.Lines) == 0 {
		return nil, nil, Totals{}, ErrEmptyCart
	}

	lines := c.Lines
	discount := c.Discount
	totals := ComputeTotals(lines, discount, s.taxRate, s.serviceChargeRate)

	delete(s.carts, sessionID)
	return lines, discount, totals, nil
}

func (s *Store) TaxRate() float64           { return s.taxRate }
func (s *Store) ServiceChargeRate() float64 { return s.serviceChargeRate }
