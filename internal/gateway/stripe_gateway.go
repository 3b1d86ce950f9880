package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/payout"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// StripeGateway settles the alternate asset through Stripe. Amounts are
// passed through in the currency's minor units; the engine's pricing
// already works in those units when Stripe is the configured asset.
type StripeGateway struct {
	config Config
}

// NewStripeGateway creates a new StripeGateway and sets the API key
func NewStripeGateway(config Config) *StripeGateway {
	stripe.Key = config.APIKey
	return &StripeGateway{config: config}
}

// Pull collects exactly amount from the payer via an off-session
// PaymentIntent against their saved payment method.
func (g *StripeGateway) Pull(ctx context.Context, payer string, amount money.Amount, reference string) (*Receipt, error) {
	params := &stripe.PaymentIntentParams{
		Amount:     stripe.Int64(amount),
		Currency:   stripe.String(g.config.Currency),
		Customer:   stripe.String(payer),
		Confirm:    stripe.Bool(true),
		OffSession: stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("reference", reference)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe pull failed: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("stripe pull not settled: status %s", pi.Status)
	}

	return &Receipt{
		TransactionID: pi.ID,
		Amount:        pi.Amount,
		Metadata:      map[string]string{"reference": reference},
	}, nil
}

// Payout sends amount to the recipient's connected account. The asset
// travels in the payout metadata so downstream reconciliation can tell
// native and alternate transfers apart.
func (g *StripeGateway) Payout(ctx context.Context, recipient string, asset domain.SettlementAsset, amount money.Amount, reference string) (*Receipt, error) {
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.config.Currency),
	}
	params.Context = ctx
	params.SetStripeAccount(recipient)
	params.AddMetadata("reference", reference)
	params.AddMetadata("asset", string(asset))

	p, err := payout.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payout failed: %w", err)
	}

	return &Receipt{
		TransactionID: p.ID,
		Amount:        p.Amount,
		Metadata:      map[string]string{"reference": reference},
	}, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}
