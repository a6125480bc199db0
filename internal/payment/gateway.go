package payment

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
)

var ErrDeclined = errors.New("payment declined by gateway")

// Gateway authorizes non-cash tenders. Cash never goes through the
// gateway; the drawer handles it.
type Gateway interface {
	Authorize(ctx context.Context, method string, amount float64, reference string) error
}

// StubGateway simulates a card processor deterministically so tests
// and demo environments behave the same on every run. A charge is
// declined when it exceeds the configured limit or when the reference
// carries the DECLINE prefix.
type StubGateway struct {
	DeclineOver float64
}

// NewStubGatewayFromEnv reads PAYMENT_DECLINE_OVER; zero or unset
// means no amount limit.
func NewStubGatewayFromEnv() *StubGateway {
	g := &StubGateway{}
	if v := os.Getenv("PAYMENT_DECLINE_OVER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			g.DeclineOver = f
		}
	}
	return g
}

func (g *StubGateway) Authorize(ctx context.Context, method string, amount float64, reference string) error {
	if strings.HasPrefix(reference, "DECLINE") {
		return ErrDeclined
	}
	if g.DeclineOver > 0 && amount > g.DeclineOver {
		return ErrDeclined
	}
	return nil
}
