package kitchen

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"rasoi/internal/catalog"
	"rasoi/internal/orders"

	"github.com/google/uuid"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrItemNotFound   = errors.New("ticket item not found")
	ErrAlreadyDone    = errors.New("ticket is already completed")
)

// DefaultStation receives lines whose menu item has no station set.
const DefaultStation = "kitchen"

// Catalog resolves a line's station and prep time.
type Catalog interface {
	GetMenuItem(ctx context.Context, id string) (*catalog.MenuItem, error)
}

// Orders lets the kitchen advance an order once every ticket is done.
type Orders interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
	Transition(ctx context.Context, orderID, to, note string) (*orders.Order, error)
}

// Service routes order lines to station tickets and tracks their
// completion. Tickets are transient work state, held in memory; the
// order timeline is the durable record.
type Service struct {
	mu      sync.Mutex
	tickets map[string]*Ticket

	catalog Catalog
	orders  Orders
}

func NewService(cat Catalog, ord Orders) *Service {
	return &Service{
		tickets: make(map[string]*Ticket),
		catalog: cat,
		orders:  ord,
	}
}

// Dispatch fans an order out into one ticket per station. The overall
// estimate is the slowest station's sum of line prep times, floored at
// MinEstimateMinutes. Orders above RushThreshold items are flagged
// rush on every ticket.
func (s *Service) Dispatch(ctx context.Context, o *orders.Order) ([]*Ticket, error) {
	type stationWork struct {
		items   []TicketItem
		minutes int
	}
	work := make(map[string]*stationWork)

	totalItems := 0
	for _, l := range o.Lines {
		totalItems += l.Quantity

		station := DefaultStation
		prep := 0
		if item, err := s.catalog.GetMenuItem(ctx, l.MenuItemID); err == nil {
			if item.Station != "" {
				station = item.Station
			}
			prep = item.PrepTimeMinutes
		}

		w, ok := work[station]
		if !ok {
			w = &stationWork{}
			work[station] = w
		}
		w.items = append(w.items, TicketItem{
			LineID:   l.ID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Note:     l.Note,
		})
		w.minutes += prep * l.Quantity
	}

	estimate := MinEstimateMinutes
	for _, w := range work {
		if w.minutes > estimate {
			estimate = w.minutes
		}
	}

	priority := PriorityNormal
	if totalItems > RushThreshold {
		priority = PriorityRush
	}

	now := time.Now().UTC()
	var out []*Ticket

	s.mu.Lock()
	defer s.mu.Unlock()

	stations := make([]string, 0, len(work))
	for station := range work {
		stations = append(stations, station)
	}
	sort.Strings(stations)

	for _, station := range stations {
		t := &Ticket{
			ID:               uuid.New().String(),
			OrderID:          o.ID,
			OrderNumber:      o.OrderNumber,
			TableID:          o.TableID,
			Station:          station,
			Status:           TicketQueued,
			Priority:         priority,
			EstimatedMinutes: estimate,
			Items:            work[station].items,
			CreatedAt:        now,
		}
		s.tickets[t.ID] = t
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) Get(id string) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return t, nil
}

// List returns open and recently completed tickets, rush first, then
// oldest first. An empty station matches all stations.
func (s *Service) List(station string) []*Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Ticket
	for _, t := range s.tickets {
		if station == "" || t.Station == station {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority == PriorityRush
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Overdue returns open tickets past their estimate, oldest first.
func (s *Service) Overdue(station string) []*Ticket {
	now := time.Now().UTC()

	var out []*Ticket
	for _, t := range s.List(station) {
		if t.Overdue(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Start marks a queued ticket as being worked on.
func (s *Service) Start(id string) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if t.Status == TicketCompleted {
		return nil, ErrAlreadyDone
	}

	now := time.Now().UTC()
	t.Status = TicketInProgress
	t.StartedAt = &now
	return t, nil
}

// CompleteItem checks one item off a ticket. Finishing the last item
// completes the ticket; finishing the order's last ticket moves the
// order to ready.
func (s *Service) CompleteItem(ctx context.Context, ticketID, lineID string) (*Ticket, error) {
	s.mu.Lock()

	t, ok := s.tickets[ticketID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrTicketNotFound
	}

	found := false
	for i := range t.Items {
		if t.Items[i].LineID == lineID {
			t.Items[i].Done = true
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return nil, ErrItemNotFound
	}

	orderDone := false
	if t.AllDone() && t.Status != TicketCompleted {
		now := time.Now().UTC()
		t.Status = TicketCompleted
		t.DoneAt = &now
		orderDone = s.orderCompleteLocked(t.OrderID)
	}
	s.mu.Unlock()

	if orderDone {
		s.advanceOrder(ctx, t.OrderID)
	}
	return t, nil
}

// CompleteTicket finishes every remaining item on a ticket at once.
func (s *Service) CompleteTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	s.mu.Lock()

	t, ok := s.tickets[ticketID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrTicketNotFound
	}
	if t.Status == TicketCompleted {
		s.mu.Unlock()
		return t, nil
	}

	now := time.Now().UTC()
	for i := range t.Items {
		t.Items[i].Done = true
	}
	t.Status = TicketCompleted
	t.DoneAt = &now
	orderDone := s.orderCompleteLocked(t.OrderID)
	s.mu.Unlock()

	if orderDone {
		s.advanceOrder(ctx, t.OrderID)
	}
	return t, nil
}

func (s *Service) orderCompleteLocked(orderID string) bool {
	for _, t := range s.tickets {
		if t.OrderID == orderID && t.Status != TicketCompleted {
			return false
		}
	}
	return true
}

// advanceOrder walks the order to ready once the kitchen is done with
// it. Orders cancelled mid-prep are left alone.
func (s *Service) advanceOrder(ctx context.Context, orderID string) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return
	}
	if o.Status == orders.StatusPending {
		if _, err := s.orders.Transition(ctx, orderID, orders.StatusPreparing, "kitchen started"); err != nil {
			return
		}
	}
	o, err = s.orders.Get(ctx, orderID)
	if err != nil || o.Status != orders.StatusPreparing {
		return
	}
	s.orders.Transition(ctx, orderID, orders.StatusReady, "all tickets completed")
}

// Clear removes completed tickets older than the cutoff so the board
// does not grow without bound.
func (s *Service) Clear(olderThan time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	removed := 0
	for id, t := range s.tickets {
		if t.Status == TicketCompleted && t.DoneAt != nil && t.DoneAt.Before(cutoff) {
			delete(s.tickets, id)
			removed++
		}
	}
	return removed
}
