// Package service implements the engine's use cases on top of the
// repository, pricing, gateway and event layers. Services enforce
// authorization and payment rules; atomicity lives in the store.
package service

import (
	"context"
	"errors"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/pkg/money"
)

// Service errors
var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidDaoConfig = errors.New("invalid dao config")
)

// MintService prices and executes primary-market purchases
type MintService interface {
	// Quote prices an order without minting
	Quote(ctx context.Context, buyer string, req *dto.QuoteRequest) (*dto.QuoteResponse, error)
	// Mint executes a purchase: all tickets mint or none do
	Mint(ctx context.Context, buyer string, req *dto.MintRequest) (*dto.MintResponse, error)
}

// TicketService serves read-side views of minted tickets
type TicketService interface {
	Settings(ctx context.Context) (*dto.SettingsResponse, error)
	Ticket(ctx context.Context, id int64) (*dto.TicketResponse, error)
	TicketsByOwner(ctx context.Context, owner string) ([]dto.TicketResponse, error)
	OwnerOf(ctx context.Context, id int64) (string, error)
	TokenURI(ctx context.Context, id int64) (string, error)
	TokenImage(ctx context.Context, id int64) ([]byte, error)
}

// MarketService runs the constrained secondary market
type MarketService interface {
	// SetResellable lists or delists the caller's ticket
	SetResellable(ctx context.Context, caller string, tokenID int64, req *dto.SetResellableRequest) (*dto.TicketResponse, error)
	// Resell buys a listed ticket, splitting the payment between seller,
	// DAO and platform
	Resell(ctx context.Context, buyer string, tokenID int64, req *dto.ResellRequest) (*dto.TicketResponse, error)
}

// AdminService holds the owner-only mutations
type AdminService interface {
	SetTicketSettings(ctx context.Context, caller string, req *dto.SetTicketSettingsRequest) (*dto.SettingsResponse, error)
	SetTicketOption(ctx context.Context, caller string, req *dto.SetTicketOptionRequest) (*dto.SettingsResponse, error)
	SetMaxSupply(ctx context.Context, caller string, req *dto.SetMaxSupplyRequest) (*dto.SettingsResponse, error)
	SetDiscount(ctx context.Context, caller string, req *dto.SetDiscountRequest) error
	SetDaoConfig(ctx context.Context, caller string, req *dto.SetDaoConfigRequest) error
}

// TreasuryService manages the pull-payment ledger: the platform
// treasury plus the per-address accounts resale shares accrue to
type TreasuryService interface {
	// Balance reports the platform balance in the given asset. Owner only.
	Balance(ctx context.Context, caller string, asset domain.SettlementAsset) (*dto.BalanceResponse, error)
	// AccountBalance reports the caller's own ledger balance
	AccountBalance(ctx context.Context, caller string, asset domain.SettlementAsset) (*dto.BalanceResponse, error)
	// Withdraw drains all platform balances and pays them out to the
	// engine owner. Owner only.
	Withdraw(ctx context.Context, caller string) (*dto.WithdrawResponse, error)
	// ClaimBalance drains the caller's own balances and pays them out
	// to the caller
	ClaimBalance(ctx context.Context, caller string) (*dto.WithdrawResponse, error)
}

// splitPayment divides a resale payment into DAO, platform and seller
// shares. Integer division remainders go to the platform so the three
// shares always sum exactly to the payment. Percentage math runs in
// big-integer arithmetic; a valid config keeps every share within
// [0, payment].
func splitPayment(payment money.Amount, cfg *domain.DaoConfig) (dao, platform, seller money.Amount) {
	dao = money.Percent(payment, cfg.DaoPct)
	platform = money.Percent(payment, cfg.PlatformPct)
	seller = money.Percent(payment, 100-cfg.DaoPct-cfg.PlatformPct)
	platform += payment - dao - platform - seller
	return dao, platform, seller
}
