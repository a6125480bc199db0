package orders

import (
	"context"
	"errors"
	"log"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/events"
)

var (
	ErrOrderNotActive = errors.New("order is no longer active")
	ErrEmptySplit     = errors.New("split must move at least one line")
	ErrFullSplit      = errors.New("split must leave at least one line behind")
	ErrMergeConflict  = errors.New("orders must both be active to merge")
)

// Deductor consumes ingredient stock for an order's lines. The
// inventory service implements it; a failure means nothing was
// deducted and the caller must abort the status change.
type Deductor interface {
	DeductForOrder(ctx context.Context, orderNumber string, lines []*cart.Line) error
}

// NopDeductor skips stock tracking, for deployments without recipes.
type NopDeductor struct{}

func (NopDeductor) DeductForOrder(ctx context.Context, orderNumber string, lines []*cart.Line) error {
	return nil
}

type Service struct {
	repo      Repository
	deductor  Deductor
	publisher events.Publisher
}

func NewService(repo Repository, deductor Deductor, publisher events.Publisher) *Service {
	if deductor == nil {
		deductor = NopDeductor{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, deductor: deductor, publisher: publisher}
}

// CreateInput is an order creation request. Lines and totals come from
// a cart checkout; the rates are frozen onto the order.
type CreateInput struct {
	IdempotencyKey    string
	TableID           string
	WaiterID          string
	Type              string
	Lines             []*cart.Line
	Discount          *cart.Discount
	TaxRate           float64
	ServiceChargeRate float64
}

// NormalizeType validates an order type, defaulting empty to dine-in.
// Callers holding resources they must not consume on a bad request
// (the checkout handler and its cart) validate before committing.
func NormalizeType(t string) (string, error) {
	if t == "" {
		return TypeDineIn, nil
	}
	switch t {
	case TypeDineIn, TypeTakeout, TypeDelivery, TypePickup:
		return t, nil
	}
	return "", errors.New("unknown order type: " + t)
}

// Create opens a new order in pending. A repeated create with the same
// idempotency key returns the already-created order instead of a
// duplicate.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if in.IdempotencyKey != "" {
		if existing, err := s.repo.FindByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
			return existing, nil
		}
	}

	if len(in.Lines) == 0 {
		return nil, cart.ErrEmptyCart
	}

	orderType, err := NormalizeType(in.Type)
	if err != nil {
		return nil, err
	}

	number, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &Order{
		OrderNumber:       number,
		IdempotencyKey:    in.IdempotencyKey,
		TableID:           in.TableID,
		WaiterID:          in.WaiterID,
		Type:              orderType,
		Status:            StatusPending,
		Lines:             in.Lines,
		Discount:          in.Discount,
		TaxRate:           in.TaxRate,
		ServiceChargeRate: in.ServiceChargeRate,
		Timeline:          []TimelineEntry{{Status: StatusPending, Note: "order created", Timestamp: now}},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	o.Recompute()

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderCreated, map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"order_type":   o.Type,
		"table_id":     o.TableID,
		"total":        cart.Round2(o.Total),
		"line_count":   len(o.Lines),
	})
	return o, nil
}

// Transition moves an order to a new status. Illegal moves return an
// InvalidTransitionError without touching the order. Entering
// preparing for the first time deducts ingredient stock; a deduction
// failure aborts the transition entirely.
func (s *Service) Transition(ctx context.Context, orderID, to, note string) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := CanTransition(o.Status, to); err != nil {
		return nil, err
	}

	if to == StatusPreparing && !o.hasEntered(StatusPreparing) {
		if err := s.deductor.DeductForOrder(ctx, o.OrderNumber, o.Lines); err != nil {
			return nil, err
		}
	}

	from := o.Status
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	o.Timeline = append(o.Timeline, TimelineEntry{Status: to, Note: note, Timestamp: o.UpdatedAt})

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderStatusChanged, map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"from":         from,
		"to":           to,
	})
	return o, nil
}

func (o *Order) hasEntered(status string) bool {
	for _, e := range o.Timeline {
		if e.Status == status {
			return true
		}
	}
	return false
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, statuses ...string) ([]*Order, error) {
	if len(statuses) == 0 {
		return s.repo.List(ctx)
	}
	return s.repo.ListByStatus(ctx, statuses...)
}

// ListActive returns orders still needing kitchen or floor attention.
func (s *Service) ListActive(ctx context.Context) ([]*Order, error) {
	return s.repo.ListByStatus(ctx, StatusPending, StatusPreparing, StatusReady)
}

// AddLine appends a line to a still-active order and reprices it.
func (s *Service) AddLine(ctx context.Context, orderID string, line *cart.Line) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Active() {
		return nil, ErrOrderNotActive
	}
	if line.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	o.Lines = append(o.Lines, line)
	o.Recompute()
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// SetLineQuantity updates a line's quantity on an active order; zero
// or less removes the line. Removing the last line cancels the order.
func (s *Service) SetLineQuantity(ctx context.Context, orderID, lineID string, quantity int) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Active() {
		return nil, ErrOrderNotActive
	}

	found := false
	for i, l := range o.Lines {
		if l.ID == lineID {
			found = true
			if quantity <= 0 {
				o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			} else {
				l.Quantity = quantity
			}
			break
		}
	}
	if !found {
		return nil, cart.ErrUnknownLine
	}

	if len(o.Lines) == 0 {
		return s.Transition(ctx, orderID, StatusCancelled, "all lines removed")
	}

	o.Recompute()
	o.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Split carves the named lines out of an order into a fresh pending
// order, so one table can pay with separate checks. Both orders are
// repriced under the source order's rates; the source keeps its
// discount, the new order starts without one.
func (s *Service) Split(ctx context.Context, orderID string, lineIDs []string) (*Order, *Order, error) {
	if len(lineIDs) == 0 {
		return nil, nil, ErrEmptySplit
	}

	src, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !src.Active() {
		return nil, nil, ErrOrderNotActive
	}

	move := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		move[id] = true
	}

	var kept, moved []*cart.Line
	for _, l := range src.Lines {
		if move[l.ID] {
			moved = append(moved, l)
		} else {
			kept = append(kept, l)
		}
	}
	if len(moved) != len(move) {
		return nil, nil, cart.ErrUnknownLine
	}
	if len(kept) == 0 {
		return nil, nil, ErrFullSplit
	}

	number, err := s.repo.NextOrderNumber(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	dst := &Order{
		OrderNumber:       number,
		TableID:           src.TableID,
		WaiterID:          src.WaiterID,
		Type:              src.Type,
		Status:            StatusPending,
		Lines:             moved,
		TaxRate:           src.TaxRate,
		ServiceChargeRate: src.ServiceChargeRate,
		Timeline:          []TimelineEntry{{Status: StatusPending, Note: "split from " + src.OrderNumber, Timestamp: now}},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	dst.Recompute()

	src.Lines = kept
	src.Recompute()
	src.UpdatedAt = now

	if err := s.repo.Create(ctx, dst); err != nil {
		return nil, nil, err
	}
	if err := s.repo.Update(ctx, src); err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// Merge folds the source order's lines into the target and cancels the
// source. The combined line set is exactly the union of both orders.
func (s *Service) Merge(ctx context.Context, targetID, sourceID string) (*Order, error) {
	if targetID == sourceID {
		return nil, ErrMergeConflict
	}

	target, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	source, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if !target.Active() || !source.Active() {
		return nil, ErrMergeConflict
	}

	now := time.Now().UTC()
	target.Lines = append(target.Lines, source.Lines...)
	target.Recompute()
	target.UpdatedAt = now
	target.Timeline = append(target.Timeline, TimelineEntry{
		Status:    target.Status,
		Note:      "merged in " + source.OrderNumber,
		Timestamp: now,
	})

	source.Status = StatusCancelled
	source.UpdatedAt = now
	source.Timeline = append(source.Timeline, TimelineEntry{
		Status:    StatusCancelled,
		Note:      "merged into " + target.OrderNumber,
		Timestamp: now,
	})

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, source); err != nil {
		return nil, err
	}
	return target, nil
}

// Transfer moves an order to a different table.
func (s *Service) Transfer(ctx context.Context, orderID, tableID string) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Active() {
		return nil, ErrOrderNotActive
	}

	o.TableID = tableID
	o.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkPaid is called by the payment service once a transaction covers
// the order total.
func (s *Service) MarkPaid(ctx context.Context, orderID, note string) (*Order, error) {
	return s.Transition(ctx, orderID, StatusPaid, note)
}

func (s *Service) publish(ctx context.Context, name string, payload map[string]any) {
	err := s.publisher.Publish(ctx, events.Event{
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		log.Printf("Failed to publish %s event: %v", name, err)
	}
}
