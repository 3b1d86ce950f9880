package repository

import (
	"context"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// Account names used by the balance ledger. Sellers and the DAO are
// credited under their wallet addresses; the platform treasury has a
// fixed account.
const PlatformAccount = "platform"

// Credit moves value into an account of the balance ledger
type Credit struct {
	Account string
	Asset   domain.SettlementAsset
	Amount  money.Amount
}

// Store persists the engine state: settings, catalog, discounts, DAO
// config, tickets and balances. Every mutating method commits atomically
// or leaves state untouched; implementations serialize mutations so two
// conflicting calls resolve in submission order with the loser observing
// the committed state of the winner.
type Store interface {
	// Settings returns the current committed settings
	Settings(ctx context.Context) (*domain.Settings, error)
	// SaveSettings replaces catalog name, options and settlement asset.
	// MintedCount and MaxSupply are not touched.
	SaveSettings(ctx context.Context, s *domain.Settings) error
	// SetMaxSupply adjusts the supply cap. Never invalidates minted tokens.
	SetMaxSupply(ctx context.Context, max int64) error

	// Discount returns the discount for the given key, or nil
	Discount(ctx context.Context, key string) (*domain.Discount, error)
	// SaveDiscount creates or overwrites a discount
	SaveDiscount(ctx context.Context, d *domain.Discount) error

	// DaoConfig returns the committed fee-split configuration
	DaoConfig(ctx context.Context) (*domain.DaoConfig, error)
	// SaveDaoConfig replaces the fee-split configuration
	SaveDaoConfig(ctx context.Context, cfg *domain.DaoConfig) error

	// Ticket returns a ticket by token id, or domain.ErrTicketNotFound
	Ticket(ctx context.Context, id int64) (*domain.Ticket, error)
	// TicketsByOwner lists tickets currently owned by the address
	TicketsByOwner(ctx context.Context, owner string) ([]*domain.Ticket, error)

	// MintBatch allocates sequential token ids for all staged tickets,
	// increments the minted count and applies the payment credit in one
	// commit. Returns domain.ErrSoldOut without side effects when the
	// batch would exceed the supply cap.
	MintBatch(ctx context.Context, tickets []*domain.Ticket, credit *Credit) ([]int64, error)

	// CommitListing updates a ticket's resale state. The expected owner
	// guards against a concurrent transfer: a mismatch returns
	// domain.ErrUnauthorized with no change.
	CommitListing(ctx context.Context, id int64, expectedOwner string, r domain.Resellable) error

	// CommitResale transfers ownership to the buyer, clears the listing
	// and applies all balance credits in one commit. Seller and price are
	// the listing the buyer agreed to: the commit fails with
	// domain.ErrNotListed when the ticket is delisted or has changed
	// hands, and with domain.ErrPriceTooLow when it was relisted at a
	// different price. No side effects on failure.
	CommitResale(ctx context.Context, id int64, seller, buyer string, price money.Amount, credits []Credit) error

	// Balance returns the ledger balance of an account in the given asset
	Balance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error)
	// DrainBalance zeroes an account's balance and returns the amount
	// that was held. The zeroing commits before the caller moves any
	// external value.
	DrainBalance(ctx context.Context, account string, asset domain.SettlementAsset) (money.Amount, error)
}
