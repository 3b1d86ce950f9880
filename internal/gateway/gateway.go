// Package gateway abstracts the movement of real value in and out of the
// engine. The engine commits its own ledger first and only then calls a
// gateway, so a malicious or failing gateway can never observe
// half-applied engine state.
package gateway

import (
	"context"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// SettlementGateway moves value in and out of the engine
type SettlementGateway interface {
	// Pull collects exactly amount from the payer's pre-approved balance.
	// Used at mint time when the engine settles in the alternate asset.
	Pull(ctx context.Context, payer string, amount money.Amount, reference string) (*Receipt, error)

	// Payout sends amount of the given asset to the recipient. Used by
	// withdrawals and refunds; the asset keeps native and alternate
	// balances from being conflated at the transfer boundary.
	Payout(ctx context.Context, recipient string, asset domain.SettlementAsset, amount money.Amount, reference string) (*Receipt, error)

	// Name returns the gateway name
	Name() string
}

// Receipt describes a completed transfer
type Receipt struct {
	TransactionID string
	Amount        money.Amount
	Metadata      map[string]string
}

// Config holds common gateway configuration
type Config struct {
	APIKey      string
	Currency    string
	Environment string // "test" or "live"
}
