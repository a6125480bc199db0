package payment

import "time"

// Payment methods.
const (
	MethodCash          = "cash"
	MethodCard          = "card"
	MethodDigitalWallet = "digital_wallet"
	MethodGiftCard      = "gift_card"
)

// Transaction statuses.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Leg statuses.
const (
	LegSucceeded = "succeeded"
	LegFailed    = "failed"
)

// Leg is one tender attempt within a transaction. Succeeded legs are
// final; a later leg failing never reverses an earlier one.
type Leg struct {
	Method        string  `json:"method"`
	Amount        float64 `json:"amount"`
	Tendered      float64 `json:"tendered,omitempty"`
	Reference     string  `json:"reference,omitempty"`
	Status        string  `json:"status"`
	FailureReason string  `json:"failure_reason,omitempty"`
}

// Transaction records a payment attempt against an order, including
// every leg of a split payment.
type Transaction struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`

	IdempotencyKey string `json:"-"`

	Status         string  `json:"status"`
	AmountDue      float64 `json:"amount_due"`
	AmountPaid     float64 `json:"amount_paid"`
	TipAmount      float64 `json:"tip_amount"`
	ChangeDue      float64 `json:"change_due"`
	RefundedAmount float64 `json:"refunded_amount,omitempty"`

	Legs []Leg `json:"legs"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outstanding is the amount still owed after the succeeded legs.
func (t *Transaction) Outstanding() float64 {
	out := t.AmountDue - t.AmountPaid
	if out < 0 {
		return 0
	}
	return out
}

// ReceiptLine is one printable row of an itemized receipt.
type ReceiptLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Receipt is the printable summary for a completed transaction.
type Receipt struct {
	OrderNumber string        `json:"order_number"`
	IssuedAt    time.Time     `json:"issued_at"`
	Items       []ReceiptLine `json:"items"`
	Charges     []ReceiptLine `json:"charges"`
	Payments    []ReceiptLine `json:"payments"`
	ChangeDue   float64       `json:"change_due"`
}
