// Package payment defines the payment collaborator consumed by the purchase
// flow. Payment is a synchronous boolean confirmation; real gateway
// integration lives outside this service.
package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/entradahq/entrada/internal/domain"
)

// CardDetails carries the caller-supplied payment information. Only presence
// is validated here; the gateway decides acceptance.
type CardDetails struct {
	Number     string
	HolderName string
	Expiry     string
	CVV        string
}

// Gateway charges a card for the given amount. Implementations must be
// side-effect free on decline so a rejected purchase leaves no state behind.
type Gateway interface {
	Charge(ctx context.Context, card CardDetails, amount decimal.Decimal) error
}

// SimulatedGateway accepts every well-formed card, except numbers in its
// decline list. It stands in for Stripe/PayPal during development and tests.
type SimulatedGateway struct {
	declined map[string]struct{}
}

// NewSimulatedGateway builds a gateway that declines the given card numbers.
func NewSimulatedGateway(declinedNumbers ...string) *SimulatedGateway {
	declined := make(map[string]struct{}, len(declinedNumbers))
	for _, n := range declinedNumbers {
		declined[strings.TrimSpace(n)] = struct{}{}
	}
	return &SimulatedGateway{declined: declined}
}

func (g *SimulatedGateway) Charge(_ context.Context, card CardDetails, amount decimal.Decimal) error {
	number := strings.TrimSpace(card.Number)
	if number == "" {
		return domain.ErrPaymentRequired
	}
	if amount.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if _, ok := g.declined[number]; ok {
		return domain.ErrPaymentRejected
	}
	return nil
}
