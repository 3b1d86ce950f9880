package domain

import (
	"time"

	"github.com/patcito/nftickets/pkg/money"
)

// AttendeeRecord holds the buyer-supplied profile attached to a ticket
type AttendeeRecord struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Twitter string `json:"twitter,omitempty"`
	Bio     string `json:"bio,omitempty"`
	Job     string `json:"job,omitempty"`
	Company string `json:"company,omitempty"`
	Diet    string `json:"diet,omitempty"`
	Tshirt  string `json:"tshirt,omitempty"`
}

// Resellable is the resale state of a ticket: a listing flag plus the
// minimum price a buyer must pay. Disabling a listing clears the price.
type Resellable struct {
	IsResellable bool         `json:"is_resellable"`
	Price        money.Amount `json:"price"`
}

// Ticket is a minted event ticket token. It is created exactly once and
// never destroyed; owner and resale state mutate over its lifetime while
// the options and price paid stay frozen at their mint-time values.
type Ticket struct {
	ID      int64      `json:"id"`
	Options []OptionID `json:"options"`
	// OptionLabel and PricePaid snapshot the catalog entries at mint
	// time; later catalog changes never touch them
	OptionLabel   string          `json:"option_label"`
	PricePaid     money.Amount    `json:"price_paid"`
	Attendee      AttendeeRecord  `json:"attendee"`
	TicketCode    string          `json:"ticket_code"`
	SpecialStatus string          `json:"special_status,omitempty"`
	Owner         string          `json:"owner"`
	Resellable    Resellable      `json:"resellable"`
	Asset         SettlementAsset `json:"asset"`
	MintedAt      time.Time       `json:"minted_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Listed reports whether the ticket is currently up for resale
func (t *Ticket) Listed() bool {
	return t.Resellable.IsResellable
}

// MintRequest describes one ticket in a batch purchase
type MintRequest struct {
	Options       []OptionID
	Attendee      AttendeeRecord
	TicketCode    string
	SpecialStatus string
	Resellable    Resellable
}
