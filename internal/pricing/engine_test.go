package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

const unit = int64(1000000000000000000) // one whole currency unit

func testConfig() *Config {
	return &Config{
		Settings: &domain.Settings{
			CatalogName: "early bird",
			Options:     domain.DefaultOptions(),
			MaxSupply:   100,
		},
		Dao: domain.DefaultDaoConfig(),
	}
}

func withDiscounts(cfg *Config, discounts map[string]*domain.Discount) *Config {
	cfg.Discounts = func(key string) *domain.Discount {
		return discounts[key]
	}
	return cfg
}

func TestQuoteRequestSumsBasePrices(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		ids  []domain.OptionID
		want money.Amount
	}{
		{"conference only", []domain.OptionID{domain.OptionConference}, unit / 10},
		{"conference and pre-party", []domain.OptionID{domain.OptionConference, domain.OptionWorkshopAndPreParty}, unit / 4},
		{"everything", []domain.OptionID{domain.OptionConference, domain.OptionWorkshops, domain.OptionWorkshopAndPreParty, domain.OptionHotelExtra}, unit / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := QuoteRequest(cfg, "0xbuyer", tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Total)
			assert.Equal(t, q.Subtotal, q.Total)
			assert.Zero(t, q.Discount)
		})
	}
}

func TestQuoteRequestUnknownOption(t *testing.T) {
	cfg := testConfig()

	_, err := QuoteRequest(cfg, "0xbuyer", []domain.OptionID{"vipLounge"})
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, err = QuoteRequest(cfg, "0xbuyer", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestQuoteRequestDisabledOption(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.Options[0].Disabled = true

	_, err := QuoteRequest(cfg, "0xbuyer", []domain.OptionID{domain.OptionConference})
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestQuoteRequestAppliesExactSetDiscount(t *testing.T) {
	ids := []domain.OptionID{domain.OptionWorkshopAndPreParty}
	discount := &domain.Discount{
		Buyer:        "0xbuyer",
		OptionSetKey: domain.OptionSetKey(ids),
		Amount:       unit / 20, // 0.05
	}
	cfg := withDiscounts(testConfig(), map[string]*domain.Discount{
		domain.DiscountKey("0xbuyer", ids): discount,
	})

	// 0.15 - 0.05 = 0.10 for the discounted buyer
	q, err := QuoteRequest(cfg, "0xbuyer", ids)
	require.NoError(t, err)
	assert.Equal(t, unit/10, q.Total)
	assert.Equal(t, unit/20, q.Discount)

	// Any other buyer still pays the base price
	q, err = QuoteRequest(cfg, "0xother", ids)
	require.NoError(t, err)
	assert.Equal(t, 3*unit/20, q.Total)

	// The same buyer purchasing a different set pays full price
	q, err = QuoteRequest(cfg, "0xbuyer", []domain.OptionID{domain.OptionConference})
	require.NoError(t, err)
	assert.Equal(t, unit/10, q.Total)
}

func TestQuoteRequestDiscountMatchesAnyOrder(t *testing.T) {
	ids := []domain.OptionID{domain.OptionConference, domain.OptionHotelExtra}
	cfg := withDiscounts(testConfig(), map[string]*domain.Discount{
		domain.DiscountKey("0xbuyer", ids): {
			Buyer:        "0xbuyer",
			OptionSetKey: domain.OptionSetKey(ids),
			Amount:       unit / 10,
		},
	})

	reversed := []domain.OptionID{domain.OptionHotelExtra, domain.OptionConference}
	q, err := QuoteRequest(cfg, "0xbuyer", reversed)
	require.NoError(t, err)
	assert.Equal(t, unit/10, q.Total)
}

func TestQuoteRequestClampsAtZero(t *testing.T) {
	ids := []domain.OptionID{domain.OptionConference}
	cfg := withDiscounts(testConfig(), map[string]*domain.Discount{
		domain.DiscountKey("0xbuyer", ids): {
			Buyer:        "0xbuyer",
			OptionSetKey: domain.OptionSetKey(ids),
			Amount:       unit, // far more than the price
		},
	})

	q, err := QuoteRequest(cfg, "0xbuyer", ids)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), q.Total)
}

func TestQuoteRequestDaoAdjustment(t *testing.T) {
	cfg := testConfig()
	cfg.Dao = &domain.DaoConfig{
		PlatformPct: 5,
		Adjustment: &domain.PriceAdjustment{
			Percent:   20,
			Policy:    domain.AdjustAllowlist,
			Allowlist: []string{"0xmember"},
		},
	}

	ids := []domain.OptionID{domain.OptionConference}

	// Qualifying buyer pays 20% less
	q, err := QuoteRequest(cfg, "0xmember", ids)
	require.NoError(t, err)
	assert.Equal(t, unit/10-unit/50, q.Total)
	assert.Equal(t, unit/50, q.Adjustment)

	// Everyone else pays the base price
	q, err = QuoteRequest(cfg, "0xother", ids)
	require.NoError(t, err)
	assert.Equal(t, unit/10, q.Total)
	assert.Zero(t, q.Adjustment)
}

func TestQuoteRequestAdjustmentAtLargePrices(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.Options = append(cfg.Settings.Options, domain.TicketOption{
		ID: "threeDays", Name: "Three days", BasePrice: 2 * unit,
	})
	cfg.Dao = &domain.DaoConfig{
		PlatformPct: 5,
		Adjustment:  &domain.PriceAdjustment{Percent: 50, Policy: domain.AdjustAlways},
	}

	// 50% off a 2-unit option is exactly 1 unit; the intermediate
	// price*percent product does not fit in 64 bits
	q, err := QuoteRequest(cfg, "0xbuyer", []domain.OptionID{"threeDays"})
	require.NoError(t, err)
	assert.Equal(t, unit, q.Total)
	assert.Equal(t, unit, q.Adjustment)
}

func TestQuoteBatchRejectsOverflowingTotal(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.Options = append(cfg.Settings.Options, domain.TicketOption{
		ID: "threeDays", Name: "Three days", BasePrice: 2 * unit,
	})

	// 5 x 2 units exceeds the representable range instead of wrapping
	// into a negative total
	requests := make([][]domain.OptionID, 5)
	for i := range requests {
		requests[i] = []domain.OptionID{"threeDays"}
	}
	_, _, err := QuoteBatch(cfg, "0xbuyer", requests)
	assert.ErrorIs(t, err, money.ErrOverflow)
}

func TestQuoteRequestIsDeterministic(t *testing.T) {
	cfg := testConfig()
	ids := []domain.OptionID{domain.OptionConference, domain.OptionWorkshops}

	first, err := QuoteRequest(cfg, "0xbuyer", ids)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		q, err := QuoteRequest(cfg, "0xbuyer", ids)
		require.NoError(t, err)
		assert.Equal(t, first.Total, q.Total)
	}
}

func TestQuoteBatch(t *testing.T) {
	cfg := testConfig()

	total, quotes, err := QuoteBatch(cfg, "0xbuyer", [][]domain.OptionID{
		{domain.OptionConference},
		{domain.OptionConference, domain.OptionWorkshops},
	})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	assert.Equal(t, unit/10+unit/4, total)
}

func TestQuoteBatchFailsOnAnyInvalidRequest(t *testing.T) {
	cfg := testConfig()

	_, _, err := QuoteBatch(cfg, "0xbuyer", [][]domain.OptionID{
		{domain.OptionConference},
		{"bogus"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	_, _, err = QuoteBatch(cfg, "0xbuyer", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}
