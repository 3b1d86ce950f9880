// Package pricing computes ticket prices. Quotes are pure: the same
// buyer, requests and configuration always produce the same amounts, and
// nothing here mutates state.
package pricing

import (
	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// DiscountLookup resolves a discount by its (buyer, option set) key.
// A nil result means no discount applies.
type DiscountLookup func(key string) *domain.Discount

// Config is the committed configuration a quote is computed against
type Config struct {
	Settings  *domain.Settings
	Discounts DiscountLookup
	Dao       *domain.DaoConfig
}

// Quote is the price breakdown for a single option set
type Quote struct {
	Buyer      string         `json:"buyer"`
	Options    []domain.OptionID `json:"options"`
	Subtotal   money.Amount   `json:"subtotal"`
	Adjustment money.Amount   `json:"adjustment"`
	Discount   money.Amount   `json:"discount"`
	Total      money.Amount   `json:"total"`
}

// QuoteRequest prices one option set for the given buyer.
//
// The subtotal is the sum of current base prices. When the DAO config
// carries a price adjustment and the buyer qualifies, each option price is
// reduced by the configured percent before summing. The buyer's flat
// discount for exactly this option set is subtracted last; the total
// clamps at zero rather than underflowing.
func QuoteRequest(cfg *Config, buyer string, ids []domain.OptionID) (*Quote, error) {
	if len(ids) == 0 {
		return nil, domain.ErrInvalidOption
	}

	var adjustPct int64
	if cfg.Dao != nil && cfg.Dao.Adjustment != nil && cfg.Dao.Adjustment.Eligible(buyer) {
		adjustPct = cfg.Dao.Adjustment.Percent
	}

	var subtotal, adjusted money.Amount
	var err error
	for _, id := range ids {
		opt := cfg.Settings.Option(id)
		if opt == nil {
			return nil, domain.ErrInvalidOption
		}
		if subtotal, err = money.Add(subtotal, opt.BasePrice); err != nil {
			return nil, err
		}
		if adjusted, err = money.Add(adjusted, opt.BasePrice-money.Percent(opt.BasePrice, adjustPct)); err != nil {
			return nil, err
		}
	}

	quote := &Quote{
		Buyer:      buyer,
		Options:    ids,
		Subtotal:   subtotal,
		Adjustment: subtotal - adjusted,
	}

	total := adjusted
	if cfg.Discounts != nil {
		if d := cfg.Discounts(domain.DiscountKey(buyer, ids)); d != nil {
			quote.Discount = d.Amount
			total -= d.Amount
		}
	}
	if total < 0 {
		total = 0
	}
	quote.Total = total

	return quote, nil
}

// QuoteBatch prices a whole purchase. The batch total is the sum of the
// per-request totals; there is no batch-level rounding.
func QuoteBatch(cfg *Config, buyer string, requests [][]domain.OptionID) (money.Amount, []*Quote, error) {
	if len(requests) == 0 {
		return 0, nil, domain.ErrInvalidOption
	}

	var total money.Amount
	quotes := make([]*Quote, 0, len(requests))
	for _, ids := range requests {
		q, err := QuoteRequest(cfg, buyer, ids)
		if err != nil {
			return 0, nil, err
		}
		quotes = append(quotes, q)
		if total, err = money.Add(total, q.Total); err != nil {
			return 0, nil, err
		}
	}
	return total, quotes, nil
}
