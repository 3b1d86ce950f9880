package domain

import (
	"sort"
	"strings"

	"github.com/patcito/nftickets/pkg/money"
)

// OptionID is the opaque key of a purchasable ticket option. The catalog
// owns the mapping from IDs to prices; nothing else in the engine matches
// on the literal value.
type OptionID string

// Built-in option IDs of the default catalog
const (
	OptionConference          OptionID = "conference"
	OptionWorkshops           OptionID = "workshops"
	OptionWorkshopAndPreParty OptionID = "workshopAndPreParty"
	OptionHotelExtra          OptionID = "hotelExtra"
)

// TicketOption is a purchasable category with a base price in smallest
// currency units.
type TicketOption struct {
	ID        OptionID     `json:"id"`
	Name      string       `json:"name"`
	BasePrice money.Amount `json:"base_price"`
	Disabled  bool         `json:"disabled,omitempty"`
}

// SettlementAsset identifies the currency accepted for payment
type SettlementAsset string

const (
	// SettlementNative settles in the platform's native currency
	SettlementNative SettlementAsset = "native"
	// SettlementToken settles in an external fungible token pulled
	// through the settlement gateway
	SettlementToken SettlementAsset = "token"
)

// Settings is the engine's owner-mutable configuration. Mutations apply to
// subsequent pricing and minting only; minted tickets keep the option and
// price snapshotted at mint time.
type Settings struct {
	CatalogName     string          `json:"catalog_name"`
	Options         []TicketOption  `json:"options"`
	SettlementAsset SettlementAsset `json:"settlement_asset"`
	// AssetReference identifies the external token contract when
	// SettlementAsset is SettlementToken
	AssetReference string `json:"asset_reference,omitempty"`
	MaxSupply      int64  `json:"max_supply"`
	MintedCount    int64  `json:"minted_count"`
}

// Option returns the catalog entry for the given ID, or nil when the
// option is unknown or disabled.
func (s *Settings) Option(id OptionID) *TicketOption {
	for i := range s.Options {
		if s.Options[i].ID == id && !s.Options[i].Disabled {
			return &s.Options[i]
		}
	}
	return nil
}

// Remaining returns how many tokens can still be minted
func (s *Settings) Remaining() int64 {
	if s.MintedCount >= s.MaxSupply {
		return 0
	}
	return s.MaxSupply - s.MintedCount
}

// DefaultOptions returns the initial option catalog. Prices are in base
// units of an 18-decimal currency.
func DefaultOptions() []TicketOption {
	return []TicketOption{
		{ID: OptionConference, Name: "Conference", BasePrice: 100000000000000000},
		{ID: OptionWorkshops, Name: "Workshops", BasePrice: 150000000000000000},
		{ID: OptionWorkshopAndPreParty, Name: "Workshops and pre-party", BasePrice: 150000000000000000},
		{ID: OptionHotelExtra, Name: "Hotel extra", BasePrice: 100000000000000000},
	}
}

// OptionSetKey builds the canonical key for an option combination. The key
// is order-insensitive so a discount granted for {a,b} also matches a
// request for {b,a}, and nothing else.
func OptionSetKey(ids []OptionID) string {
	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = string(id)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}
