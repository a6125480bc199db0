package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rasoi/internal/cart"
	"rasoi/internal/events"
	"rasoi/internal/orders"
)

var (
	ErrOrderAlreadyPaid = errors.New("order is already paid")
	ErrOrderCancelled   = errors.New("order is cancelled")
	ErrNotPayable       = errors.New("order must be served before payment")
	ErrNothingDue       = errors.New("order has no outstanding balance")
	ErrNoLegs           = errors.New("at least one payment leg is required")
	ErrUnknownMethod    = errors.New("unknown payment method")
	ErrNotRefundable    = errors.New("only completed transactions can be refunded")
	ErrRefundTooLarge   = errors.New("refund exceeds amount paid")
)

// Orders is what the payment service needs from the order store.
type Orders interface {
	Get(ctx context.Context, id string) (*orders.Order, error)
	MarkPaid(ctx context.Context, id, note string) (*orders.Order, error)
}

type Service struct {
	repo      Repository
	orders    Orders
	gateway   Gateway
	publisher events.Publisher
}

func NewService(repo Repository, ord Orders, gateway Gateway, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{repo: repo, orders: ord, gateway: gateway, publisher: publisher}
}

// LegInput is one tender in a payment request. Tendered only applies
// to cash and defaults to the leg amount.
type LegInput struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Tendered  float64 `json:"tendered"`
	Reference string  `json:"reference"`
}

type PayInput struct {
	OrderID        string
	IdempotencyKey string
	Tip            float64
	Legs           []LegInput
}

// Pay settles an order with one or more legs. Legs are attempted in
// order; a failed leg never reverses an earlier succeeded one, so a
// partly covered order ends as a partial transaction with the balance
// still owed. Full coverage marks the order paid.
func (s *Service) Pay(ctx context.Context, in PayInput) (*Transaction, error) {
	if in.IdempotencyKey != "" {
		if existing, err := s.repo.FindByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
			return existing, nil
		}
	}
	if len(in.Legs) == 0 {
		return nil, ErrNoLegs
	}
	if in.Tip < 0 {
		return nil, errors.New("tip cannot be negative")
	}
	for _, leg := range in.Legs {
		switch leg.Method {
		case MethodCash, MethodCard, MethodDigitalWallet, MethodGiftCard:
		default:
			return nil, ErrUnknownMethod
		}
		if leg.Amount <= 0 {
			return nil, errors.New("leg amount must be positive")
		}
	}

	o, err := s.orders.Get(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	switch o.Status {
	case orders.StatusPaid:
		return nil, ErrOrderAlreadyPaid
	case orders.StatusCancelled:
		return nil, ErrOrderCancelled
	case orders.StatusServed:
	default:
		return nil, ErrNotPayable
	}

	paidSoFar, err := s.paidSoFar(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	due := cart.Round2(o.Total) + in.Tip - paidSoFar
	if due <= 0 {
		return nil, ErrNothingDue
	}

	now := time.Now().UTC()
	t := &Transaction{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		IdempotencyKey: in.IdempotencyKey,
		AmountDue:      due,
		TipAmount:      in.Tip,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, in := range in.Legs {
		t.Legs = append(t.Legs, s.attempt(ctx, in))
	}

	for _, leg := range t.Legs {
		if leg.Status == LegSucceeded {
			t.AmountPaid += leg.Amount
			if leg.Method == MethodCash && leg.Tendered > leg.Amount {
				t.ChangeDue += leg.Tendered - leg.Amount
			}
		}
	}

	switch {
	case t.AmountPaid >= due:
		t.Status = StatusCompleted
		// Overpayment on the last leg comes back as change.
		if over := t.AmountPaid - due; over > 0 {
			t.ChangeDue += over
			t.AmountPaid = due
		}
	case t.AmountPaid > 0:
		t.Status = StatusPartial
	default:
		t.Status = StatusFailed
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	if t.Status == StatusCompleted {
		if _, err := s.orders.MarkPaid(ctx, o.ID, "payment "+t.ID); err != nil {
			log.Printf("Failed to mark order %s paid: %v", o.OrderNumber, err)
		}
		s.publish(ctx, t)
	}
	return t, nil
}

func (s *Service) attempt(ctx context.Context, in LegInput) Leg {
	leg := Leg{
		Method:    in.Method,
		Amount:    in.Amount,
		Tendered:  in.Tendered,
		Reference: in.Reference,
	}

	if in.Method == MethodCash {
		if leg.Tendered == 0 {
			leg.Tendered = leg.Amount
		}
		if leg.Tendered < leg.Amount {
			leg.Status = LegFailed
			leg.FailureReason = "insufficient cash tendered"
			return leg
		}
		leg.Status = LegSucceeded
		return leg
	}

	if err := s.gateway.Authorize(ctx, in.Method, in.Amount, in.Reference); err != nil {
		leg.Status = LegFailed
		leg.FailureReason = err.Error()
		return leg
	}
	leg.Status = LegSucceeded
	return leg
}

// paidSoFar sums succeeded amounts from earlier transactions, less
// refunds, so a follow-up payment only owes the balance.
func (s *Service) paidSoFar(ctx context.Context, orderID string) (float64, error) {
	previous, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	var paid float64
	for _, t := range previous {
		paid += t.AmountPaid - t.RefundedAmount
	}
	return paid, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByOrder(ctx context.Context, orderID string) ([]*Transaction, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

// Refund returns part or all of a completed transaction. The order
// stays paid; refunds are a bookkeeping correction, not a state
// machine rewind.
func (s *Service) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*Transaction, error) {
	if amount <= 0 {
		return nil, errors.New("refund amount must be positive")
	}

	t, err := s.repo.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusCompleted && t.Status != StatusRefunded {
		return nil, ErrNotRefundable
	}
	if t.RefundedAmount+amount > t.AmountPaid {
		return nil, ErrRefundTooLarge
	}

	t.RefundedAmount += amount
	if t.RefundedAmount >= t.AmountPaid {
		t.Status = StatusRefunded
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// BuildReceipt renders an itemized receipt for a transaction from the
// order's frozen line snapshot.
func (s *Service) BuildReceipt(ctx context.Context, transactionID string) (*Receipt, error) {
	t, err := s.repo.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.Get(ctx, t.OrderID)
	if err != nil {
		return nil, err
	}

	r := &Receipt{
		OrderNumber: o.OrderNumber,
		IssuedAt:    t.UpdatedAt,
		ChangeDue:   cart.Round2(t.ChangeDue),
	}

	for _, l := range o.Lines {
		label := fmt.Sprintf("%dx %s", l.Quantity, l.Name)
		for _, m := range l.Modifiers {
			label += " +" + m.Name
		}
		r.Items = append(r.Items, ReceiptLine{Label: label, Amount: cart.Round2(cart.LineTotal(l))})
	}

	r.Charges = append(r.Charges, ReceiptLine{Label: "Subtotal", Amount: cart.Round2(o.Subtotal)})
	if o.DiscountAmount > 0 {
		r.Charges = append(r.Charges, ReceiptLine{Label: "Discount", Amount: -cart.Round2(o.DiscountAmount)})
	}
	r.Charges = append(r.Charges, ReceiptLine{Label: "Tax", Amount: cart.Round2(o.Tax)})
	if o.ServiceCharge > 0 {
		r.Charges = append(r.Charges, ReceiptLine{Label: "Service charge", Amount: cart.Round2(o.ServiceCharge)})
	}
	if t.TipAmount > 0 {
		r.Charges = append(r.Charges, ReceiptLine{Label: "Tip", Amount: cart.Round2(t.TipAmount)})
	}
	r.Charges = append(r.Charges, ReceiptLine{Label: "Total", Amount: cart.Round2(o.Total + t.TipAmount)})

	for _, leg := range t.Legs {
		if leg.Status == LegSucceeded {
			r.Payments = append(r.Payments, ReceiptLine{Label: leg.Method, Amount: cart.Round2(leg.Amount)})
		}
	}
	return r, nil
}

func (s *Service) publish(ctx context.Context, t *Transaction) {
	err := s.publisher.Publish(ctx, events.Event{
		Name:       events.PaymentCompleted,
		OccurredAt: time.Now().UTC(),
		Payload: map[string]any{
			"transaction_id": t.ID,
			"order_id":       t.OrderID,
			"order_number":   t.OrderNumber,
			"amount_paid":    cart.Round2(t.AmountPaid),
			"tip":            cart.Round2(t.TipAmount),
		},
	})
	if err != nil {
		log.Printf("Failed to publish %s event: %v", events.PaymentCompleted, err)
	}
}
