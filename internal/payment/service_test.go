package payment

import (
	"context"
	"errors"
	"testing"

	"rasoi/internal/cart"
	"rasoi/internal/events"
	"rasoi/internal/orders"
)

// servedOrder walks a fresh order to served so it is payable.
func servedOrder(t *testing.T, ord *orders.Service, total float64) *orders.Order {
	t.Helper()
	ctx := context.Background()

	o, err := ord.Create(ctx, orders.CreateInput{
		Lines: []*cart.Line{{ID: "l1", MenuItemID: "feast", Name: "Feast", UnitPrice: total, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	for _, status := range []string{orders.StatusPreparing, orders.StatusReady, orders.StatusServed} {
		if o, err = ord.Transition(ctx, o.ID, status, ""); err != nil {
			t.Fatalf("to %s: %v", status, err)
		}
	}
	return o
}

func newTestServices(t *testing.T, gateway Gateway) (*Service, *orders.Service, *events.MemoryPublisher) {
	t.Helper()
	pub := events.NewMemoryPublisher()
	ord := orders.NewService(orders.NewInMemoryRepository(), nil, events.NopPublisher{})
	if gateway == nil {
		gateway = &StubGateway{}
	}
	return NewService(NewInMemoryRepository(), ord, gateway, pub), ord, pub
}

func TestPayCashWithChange(t *testing.T) {
	svc, ord, pub := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 42.50)

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCash, Amount: 42.50, Tendered: 50.00}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	if tx.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", tx.Status)
	}
	if tx.ChangeDue != 7.50 {
		t.Errorf("change = %v, want 7.50", tx.ChangeDue)
	}

	paid, _ := ord.Get(ctx, o.ID)
	if paid.Status != orders.StatusPaid {
		t.Errorf("order status = %s, want paid", paid.Status)
	}
	if got := pub.ByName(events.PaymentCompleted); len(got) != 1 {
		t.Errorf("payment.completed events = %d, want 1", len(got))
	}
}

func TestPayCashInsufficientTenderFailsLeg(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 30.00)

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCash, Amount: 30.00, Tendered: 20.00}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	if tx.Status != StatusFailed {
		t.Errorf("status = %s, want failed", tx.Status)
	}
	if tx.Legs[0].FailureReason == "" {
		t.Error("failed leg carries no reason")
	}

	still, _ := ord.Get(ctx, o.ID)
	if still.Status != orders.StatusServed {
		t.Errorf("order status = %s, want still served", still.Status)
	}
}

func TestSplitPaymentPartialKeepsSucceededLegs(t *testing.T) {
	// Card succeeds, then the cash leg is short: $60 of $100 stays
	// collected and the transaction lands in partial.
	svc, ord, pub := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 100.00)

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs: []LegInput{
			{Method: MethodCard, Amount: 60.00, Reference: "card-1"},
			{Method: MethodCash, Amount: 40.00, Tendered: 10.00},
		},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	if tx.Status != StatusPartial {
		t.Fatalf("status = %s, want partial", tx.Status)
	}
	if tx.AmountPaid != 60.00 {
		t.Errorf("amount paid = %v, want 60.00", tx.AmountPaid)
	}
	if tx.Outstanding() != 40.00 {
		t.Errorf("outstanding = %v, want 40.00", tx.Outstanding())
	}
	if tx.Legs[0].Status != LegSucceeded || tx.Legs[1].Status != LegFailed {
		t.Errorf("leg statuses = %s/%s, want succeeded/failed", tx.Legs[0].Status, tx.Legs[1].Status)
	}

	still, _ := ord.Get(ctx, o.ID)
	if still.Status != orders.StatusServed {
		t.Errorf("order status = %s, want served until fully paid", still.Status)
	}
	if got := pub.ByName(events.PaymentCompleted); len(got) != 0 {
		t.Errorf("payment.completed events = %d, want 0 for partial", len(got))
	}
}

func TestFollowUpPaymentOnlyOwesBalance(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 100.00)

	if _, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs: []LegInput{
			{Method: MethodCard, Amount: 60.00},
			{Method: MethodCash, Amount: 40.00, Tendered: 10.00},
		},
	}); err != nil {
		t.Fatalf("first pay: %v", err)
	}

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCash, Amount: 40.00, Tendered: 40.00}},
	})
	if err != nil {
		t.Fatalf("second pay: %v", err)
	}

	if tx.AmountDue != 40.00 {
		t.Errorf("second due = %v, want 40.00", tx.AmountDue)
	}
	if tx.Status != StatusCompleted {
		t.Errorf("second status = %s, want completed", tx.Status)
	}

	paid, _ := ord.Get(ctx, o.ID)
	if paid.Status != orders.StatusPaid {
		t.Errorf("order status = %s, want paid after balance settled", paid.Status)
	}
}

func TestGatewayDeclineOverLimit(t *testing.T) {
	svc, ord, _ := newTestServices(t, &StubGateway{DeclineOver: 50})
	ctx := context.Background()

	o := servedOrder(t, ord, 80.00)

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCard, Amount: 80.00}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if tx.Status != StatusFailed {
		t.Errorf("status = %s, want failed over the gateway limit", tx.Status)
	}
}

func TestGatewayDeclineReference(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 25.00)

	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCard, Amount: 25.00, Reference: "DECLINE-test"}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if tx.Status != StatusFailed {
		t.Errorf("status = %s, want failed for DECLINE reference", tx.Status)
	}
}

func TestPayIdempotencyKeyReplays(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 20.00)

	in := PayInput{
		OrderID:        o.ID,
		IdempotencyKey: "pay-once",
		Legs:           []LegInput{{Method: MethodCash, Amount: 20.00, Tendered: 20.00}},
	}
	first, err := svc.Pay(ctx, in)
	if err != nil {
		t.Fatalf("first pay: %v", err)
	}
	second, err := svc.Pay(ctx, in)
	if err != nil {
		t.Fatalf("retried pay: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("retried pay made a second transaction")
	}
}

func TestPayRejectsWrongStates(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	pending, _ := ord.Create(ctx, orders.CreateInput{
		Lines: []*cart.Line{{ID: "l1", MenuItemID: "x", UnitPrice: 5, Quantity: 1}},
	})
	if _, err := svc.Pay(ctx, PayInput{OrderID: pending.ID, Legs: []LegInput{{Method: MethodCash, Amount: 5, Tendered: 5}}}); !errors.Is(err, ErrNotPayable) {
		t.Errorf("pending pay err = %v, want ErrNotPayable", err)
	}

	served := servedOrder(t, ord, 10.00)
	if _, err := svc.Pay(ctx, PayInput{OrderID: served.ID, Legs: []LegInput{{Method: MethodCash, Amount: 10, Tendered: 10}}}); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if _, err := svc.Pay(ctx, PayInput{OrderID: served.ID, Legs: []LegInput{{Method: MethodCash, Amount: 10, Tendered: 10}}}); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("double pay err = %v, want ErrOrderAlreadyPaid", err)
	}
}

func TestPayValidatesLegs(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 10.00)

	if _, err := svc.Pay(ctx, PayInput{OrderID: o.ID}); !errors.Is(err, ErrNoLegs) {
		t.Errorf("no legs err = %v, want ErrNoLegs", err)
	}
	if _, err := svc.Pay(ctx, PayInput{OrderID: o.ID, Legs: []LegInput{{Method: "iou", Amount: 10}}}); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("bad method err = %v, want ErrUnknownMethod", err)
	}
	if _, err := svc.Pay(ctx, PayInput{OrderID: o.ID, Tip: -1, Legs: []LegInput{{Method: MethodCash, Amount: 10}}}); err == nil {
		t.Error("negative tip accepted")
	}
}

func TestRefund(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 50.00)
	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Legs:    []LegInput{{Method: MethodCard, Amount: 50.00}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	refunded, err := svc.Refund(ctx, tx.ID, 20.00, "cold entree")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refunded.RefundedAmount != 20.00 || refunded.Status != StatusCompleted {
		t.Errorf("after partial refund: amount=%v status=%s", refunded.RefundedAmount, refunded.Status)
	}

	refunded, err = svc.Refund(ctx, tx.ID, 30.00, "make it right")
	if err != nil {
		t.Fatalf("second refund: %v", err)
	}
	if refunded.Status != StatusRefunded {
		t.Errorf("status = %s, want refunded when fully returned", refunded.Status)
	}

	if _, err := svc.Refund(ctx, tx.ID, 1.00, ""); !errors.Is(err, ErrRefundTooLarge) {
		t.Errorf("over-refund err = %v, want ErrRefundTooLarge", err)
	}
}

func TestBuildReceipt(t *testing.T) {
	svc, ord, _ := newTestServices(t, nil)
	ctx := context.Background()

	o := servedOrder(t, ord, 30.00)
	tx, err := svc.Pay(ctx, PayInput{
		OrderID: o.ID,
		Tip:     3.00,
		Legs:    []LegInput{{Method: MethodCash, Amount: 33.00, Tendered: 40.00}},
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}

	r, err := svc.BuildReceipt(ctx, tx.ID)
	if err != nil {
		t.Fatalf("receipt: %v", err)
	}

	if r.OrderNumber != o.OrderNumber {
		t.Errorf("receipt order = %s, want %s", r.OrderNumber, o.OrderNumber)
	}
	if len(r.Items) != 1 {
		t.Errorf("receipt items = %d, want 1", len(r.Items))
	}
	if r.ChangeDue != 7.00 {
		t.Errorf("receipt change = %v, want 7.00", r.ChangeDue)
	}
	if len(r.Payments) != 1 || r.Payments[0].Label != MethodCash {
		t.Errorf("receipt payments = %+v, want one cash leg", r.Payments)
	}
}
