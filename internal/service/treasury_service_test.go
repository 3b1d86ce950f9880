package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/repository"
)

func TestTreasuryOwnerOnly(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	_, err := env.treasury.Balance(ctx, testBuyer, domain.SettlementNative)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.treasury.Withdraw(ctx, testBuyer)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTreasuryBalanceAccumulates(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	env.mintOne(t, testBuyer)
	env.mintOne(t, testOther)

	balance, err := env.treasury.Balance(ctx, testOwner, domain.SettlementNative)
	require.NoError(t, err)
	assert.Equal(t, "0.2", balance.Amount)
}

func TestWithdrawDrainsAndPaysOut(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	env.mintOne(t, testBuyer)

	resp, err := env.treasury.Withdraw(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, resp.Withdrawn, 1)
	assert.Equal(t, "0.1", resp.Withdrawn[0].Amount)

	require.Len(t, env.gw.Payouts, 1)
	assert.Equal(t, env.amount(t, "0.1"), env.gw.Payouts[0].Amount)
	assert.Equal(t, testOwner, env.gw.Payouts[0].Metadata["recipient"])

	balance, err := env.store.Balance(ctx, repository.PlatformAccount, domain.SettlementNative)
	require.NoError(t, err)
	assert.Zero(t, balance)

	// a second withdraw finds nothing
	resp, err = env.treasury.Withdraw(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, resp.Withdrawn)
}

func TestSellerClaimsResaleShare(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	tokenID := env.mintOne(t, testBuyer)

	_, err := env.market.SetResellable(ctx, testBuyer, tokenID, &dto.SetResellableRequest{
		IsResellable: true, Price: "1",
	})
	require.NoError(t, err)
	_, err = env.market.Resell(ctx, testOther, tokenID, &dto.ResellRequest{Payment: "1"})
	require.NoError(t, err)

	// default split: 5% platform cut, the seller keeps the rest. The
	// balance is visible regardless of address casing.
	balance, err := env.treasury.AccountBalance(ctx, strings.ToUpper(testBuyer), domain.SettlementNative)
	require.NoError(t, err)
	assert.Equal(t, "0.95", balance.Amount)

	resp, err := env.treasury.ClaimBalance(ctx, testBuyer)
	require.NoError(t, err)
	require.Len(t, resp.Withdrawn, 1)
	assert.Equal(t, "0.95", resp.Withdrawn[0].Amount)

	require.Len(t, env.gw.Payouts, 1)
	assert.Equal(t, testBuyer, env.gw.Payouts[0].Metadata["recipient"])
	assert.Equal(t, string(domain.SettlementNative), env.gw.Payouts[0].Metadata["asset"])

	// a second claim finds nothing
	resp, err = env.treasury.ClaimBalance(ctx, testBuyer)
	require.NoError(t, err)
	assert.Empty(t, resp.Withdrawn)
}

func TestDaoClaimsItsShare(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	err := env.admin.SetDaoConfig(ctx, testOwner, &dto.SetDaoConfigRequest{
		DaoAddress:  daoAddress,
		PlatformPct: 5,
		DaoPct:      2,
	})
	require.NoError(t, err)

	tokenID := env.mintOne(t, testBuyer)
	_, err = env.market.SetResellable(ctx, testBuyer, tokenID, &dto.SetResellableRequest{
		IsResellable: true, Price: "1",
	})
	require.NoError(t, err)
	_, err = env.market.Resell(ctx, testOther, tokenID, &dto.ResellRequest{Payment: "1"})
	require.NoError(t, err)

	balance, err := env.treasury.AccountBalance(ctx, daoAddress, domain.SettlementNative)
	require.NoError(t, err)
	assert.Equal(t, "0.02", balance.Amount)

	resp, err := env.treasury.ClaimBalance(ctx, daoAddress)
	require.NoError(t, err)
	require.Len(t, resp.Withdrawn, 1)
	assert.Equal(t, "0.02", resp.Withdrawn[0].Amount)

	// the platform's own funds are untouched by the claim
	platform, err := env.store.Balance(ctx, repository.PlatformAccount, domain.SettlementNative)
	require.NoError(t, err)
	assert.Equal(t, env.amount(t, "0.15"), platform)
}

func TestWithdrawZeroesBeforePayout(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	env.mintOne(t, testBuyer)

	env.gw.FailNext = true
	_, err := env.treasury.Withdraw(ctx, testOwner)
	require.Error(t, err)

	// the ledger already recorded the funds as gone, so a retried payout
	// can never double-pay
	balance, err := env.store.Balance(ctx, repository.PlatformAccount, domain.SettlementNative)
	require.NoError(t, err)
	assert.Zero(t, balance)
}
