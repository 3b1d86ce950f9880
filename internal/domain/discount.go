package domain

import (
	"strings"

	"github.com/patcito/nftickets/pkg/money"
)

// Discount is a flat amount subtracted from the computed price when the
// given buyer purchases exactly the keyed option combination. Discounts
// never expire; a new SetDiscount call for the same key overwrites the
// previous amount.
type Discount struct {
	Buyer        string       `json:"buyer"`
	OptionSetKey string       `json:"option_set_key"`
	Amount       money.Amount `json:"amount"`
}

// Key returns the storage key of this discount
func (d *Discount) Key() string {
	return strings.ToLower(d.Buyer) + "|" + d.OptionSetKey
}

// DiscountKey builds the lookup key for a (buyer, option set) pair.
// Buyer addresses compare case-insensitively.
func DiscountKey(buyer string, ids []OptionID) string {
	return strings.ToLower(buyer) + "|" + OptionSetKey(ids)
}
