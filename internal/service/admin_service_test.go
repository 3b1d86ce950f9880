package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
)

func TestAdminMutationsAreOwnerOnly(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"set ticket settings", func() error {
			_, err := env.admin.SetTicketSettings(ctx, testBuyer, &dto.SetTicketSettingsRequest{
				CatalogName: "Hijacked",
				Options:     []dto.OptionRequest{{ID: "x", Name: "X", Price: "1"}},
			})
			return err
		}},
		{"set ticket option", func() error {
			_, err := env.admin.SetTicketOption(ctx, testBuyer, &dto.SetTicketOptionRequest{
				ID: "x", Name: "X", Price: "1",
			})
			return err
		}},
		{"set max supply", func() error {
			_, err := env.admin.SetMaxSupply(ctx, testBuyer, &dto.SetMaxSupplyRequest{MaxSupply: 9999})
			return err
		}},
		{"set discount", func() error {
			return env.admin.SetDiscount(ctx, testBuyer, &dto.SetDiscountRequest{
				Buyer:   testBuyer,
				Options: []string{string(domain.OptionConference)},
				Amount:  "0.1",
			})
		}},
		{"set dao config", func() error {
			return env.admin.SetDaoConfig(ctx, testBuyer, &dto.SetDaoConfigRequest{PlatformPct: 99})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), domain.ErrUnauthorized)
		})
	}

	// nothing changed
	settings, err := env.store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ETHDubai 2022", settings.CatalogName)
	assert.Equal(t, int64(1), settings.MaxSupply)
	d, err := env.store.Discount(ctx, domain.DiscountKey(testBuyer, []domain.OptionID{domain.OptionConference}))
	require.NoError(t, err)
	assert.Nil(t, d)
	dao, err := env.store.DaoConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), dao.PlatformPct)
}

func TestSetTicketSettingsPreservesMintedState(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	tokenID := env.mintOne(t, testBuyer)

	resp, err := env.admin.SetTicketSettings(ctx, testOwner, &dto.SetTicketSettingsRequest{
		CatalogName: "ETHDubai 2023",
		Options: []dto.OptionRequest{
			{ID: string(domain.OptionConference), Name: "Conference", Price: "0.2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ETHDubai 2023", resp.CatalogName)
	require.Len(t, resp.Options, 1)
	assert.Equal(t, "0.2", resp.Options[0].Price)
	assert.Equal(t, int64(1), resp.MintedCount)
	assert.Equal(t, int64(100), resp.MaxSupply)

	// the minted ticket keeps its snapshotted price
	ticket, err := env.store.Ticket(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, env.amount(t, "0.1"), ticket.PricePaid)
	assert.Equal(t, "Conference", ticket.OptionLabel)

	// new purchases price against the new catalog
	_, err = env.mint.Mint(ctx, testOther, conferenceOrder("0.1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	_, err = env.mint.Mint(ctx, testOther, conferenceOrder("0.2"))
	assert.NoError(t, err)
}

func TestSetTicketSettingsRejectsDuplicateOptions(t *testing.T) {
	env := newTestEnv(t, 100)
	_, err := env.admin.SetTicketSettings(context.Background(), testOwner, &dto.SetTicketSettingsRequest{
		CatalogName: "ETHDubai 2022",
		Options: []dto.OptionRequest{
			{ID: "conference", Name: "Conference", Price: "0.1"},
			{ID: "conference", Name: "Conference again", Price: "0.2"},
		},
	})
	assert.Error(t, err)
}

func TestSetTicketOptionUpsert(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	// reprice an existing option
	resp, err := env.admin.SetTicketOption(ctx, testOwner, &dto.SetTicketOptionRequest{
		ID:    string(domain.OptionConference),
		Name:  "Conference",
		Price: "0.25",
	})
	require.NoError(t, err)
	require.Len(t, resp.Options, 4)

	_, err = env.mint.Mint(ctx, testBuyer, conferenceOrder("0.1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	_, err = env.mint.Mint(ctx, testBuyer, conferenceOrder("0.25"))
	require.NoError(t, err)

	// an unknown id appends a new purchasable option
	resp, err = env.admin.SetTicketOption(ctx, testOwner, &dto.SetTicketOptionRequest{
		ID:    "vipLounge",
		Name:  "VIP lounge",
		Price: "0.5",
	})
	require.NoError(t, err)
	require.Len(t, resp.Options, 5)

	quote, err := env.mint.Quote(ctx, testBuyer, &dto.QuoteRequest{
		Items: []dto.MintItemRequest{{Options: []string{"vipLounge"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0.5", quote.Total)

	// other options are untouched
	settings, err := env.store.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.amount(t, "0.15"), settings.Option(domain.OptionWorkshops).BasePrice)
}

func TestSetDiscountOverwrites(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	grant := func(amount string) {
		err := env.admin.SetDiscount(ctx, testOwner, &dto.SetDiscountRequest{
			Buyer:   testBuyer,
			Options: []string{string(domain.OptionConference)},
			Amount:  amount,
		})
		require.NoError(t, err)
	}
	grant("0.01")
	grant("0.05")

	d, err := env.store.Discount(ctx, domain.DiscountKey(testBuyer, []domain.OptionID{domain.OptionConference}))
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, env.amount(t, "0.05"), d.Amount)
}

func TestSetDaoConfigValidation(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *dto.SetDaoConfigRequest
	}{
		{"dao cut without address", &dto.SetDaoConfigRequest{DaoPct: 2}},
		{"percentages over 100", &dto.SetDaoConfigRequest{DaoAddress: daoAddress, DaoPct: 60, PlatformPct: 60}},
		{"adjustment over 100", &dto.SetDaoConfigRequest{DaoAddress: daoAddress, DaoPct: 2, AdjustPct: 150, Policy: "always"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.admin.SetDaoConfig(ctx, testOwner, tt.req)
			assert.ErrorIs(t, err, ErrInvalidDaoConfig)
		})
	}
}

func TestSetDaoConfigAdjustmentLowersQuotes(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	err := env.admin.SetDaoConfig(ctx, testOwner, &dto.SetDaoConfigRequest{
		DaoAddress:  daoAddress,
		PlatformPct: 5,
		DaoPct:      2,
		AdjustPct:   20,
		Policy:      "allowlist",
		Allowlist:   []string{testBuyer},
	})
	require.NoError(t, err)

	req := &dto.QuoteRequest{
		Items: []dto.MintItemRequest{{Options: []string{string(domain.OptionConference)}}},
	}

	listed, err := env.mint.Quote(ctx, testBuyer, req)
	require.NoError(t, err)
	assert.Equal(t, "0.08", listed.Total)

	unlisted, err := env.mint.Quote(ctx, testOther, req)
	require.NoError(t, err)
	assert.Equal(t, "0.1", unlisted.Total)
}
