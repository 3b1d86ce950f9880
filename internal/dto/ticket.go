package dto

import (
	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/pkg/money"
)

// AttendeeRequest carries the attendee details submitted with a mint item.
type AttendeeRequest struct {
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Name    string `json:"name" binding:"omitempty,max=255"`
	Twitter string `json:"twitter" binding:"omitempty,max=255"`
	Bio     string `json:"bio" binding:"omitempty,max=1024"`
	Job     string `json:"job" binding:"omitempty,max=255"`
	Company string `json:"company" binding:"omitempty,max=255"`
	Diet    string `json:"diet" binding:"omitempty,max=255"`
	Tshirt  string `json:"tshirt" binding:"omitempty,max=64"`
}

func (a *AttendeeRequest) ToDomain() domain.AttendeeRecord {
	return domain.AttendeeRecord{
		Email:   a.Email,
		Name:    a.Name,
		Twitter: a.Twitter,
		Bio:     a.Bio,
		Job:     a.Job,
		Company: a.Company,
		Diet:    a.Diet,
		Tshirt:  a.Tshirt,
	}
}

// ResellableRequest carries a resale listing submitted by a ticket owner.
type ResellableRequest struct {
	IsResellable bool   `json:"is_resellable"`
	Price        string `json:"price" binding:"omitempty"`
}

// MintItemRequest is a single ticket within a mint order.
type MintItemRequest struct {
	Options       []string           `json:"options" binding:"required,min=1"`
	Attendee      AttendeeRequest    `json:"attendee"`
	TicketCode    string             `json:"ticket_code" binding:"omitempty,max=255"`
	SpecialStatus string             `json:"special_status" binding:"omitempty,max=255"`
	Resellable    *ResellableRequest `json:"resellable" binding:"omitempty"`
}

// MintRequest is an order for one or more tickets paid in a single payment.
type MintRequest struct {
	Items []MintItemRequest `json:"items" binding:"required,min=1,dive"`
	// Payment is the amount attached to the order, in decimal units of the
	// settlement asset (e.g. "0.1").
	Payment string `json:"payment" binding:"required"`
	// PaymentReference identifies the payment source when settlement goes
	// through an external gateway (e.g. a payment method id).
	PaymentReference string `json:"payment_reference" binding:"omitempty,max=255"`
}

// Validate checks the parts gin binding tags cannot express.
func (r *MintRequest) Validate() (bool, string) {
	for _, item := range r.Items {
		if len(item.Options) == 0 {
			return false, "each item must select at least one option"
		}
		for _, id := range item.Options {
			if id == "" {
				return false, "empty option id in item"
			}
		}
	}
	return true, ""
}

// QuoteRequest asks for the total price of an order without minting it.
type QuoteRequest struct {
	Items []MintItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SetResellableRequest lists or delists a ticket for resale.
type SetResellableRequest struct {
	IsResellable bool   `json:"is_resellable"`
	Price        string `json:"price" binding:"omitempty"`
}

// ResellRequest buys a listed ticket.
type ResellRequest struct {
	// Payment is the amount attached, in decimal units of the settlement asset.
	Payment string `json:"payment" binding:"required"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            int64           `json:"id"`
	Options       []string        `json:"options"`
	OptionLabel   string          `json:"option_label"`
	PricePaid     string          `json:"price_paid"`
	Attendee      AttendeeRequest `json:"attendee"`
	TicketCode    string          `json:"ticket_code,omitempty"`
	SpecialStatus string          `json:"special_status,omitempty"`
	Owner         string          `json:"owner"`
	IsResellable  bool            `json:"is_resellable"`
	ResalePrice   string          `json:"resale_price,omitempty"`
	MintedAt      string          `json:"minted_at"`
}

// NewTicketResponse converts a domain ticket using the given money converter.
func NewTicketResponse(t *domain.Ticket, conv *money.Converter) TicketResponse {
	options := make([]string, 0, len(t.Options))
	for _, id := range t.Options {
		options = append(options, string(id))
	}
	resp := TicketResponse{
		ID:          t.ID,
		Options:     options,
		OptionLabel: t.OptionLabel,
		PricePaid:   conv.Format(t.PricePaid),
		Attendee: AttendeeRequest{
			Email:   t.Attendee.Email,
			Name:    t.Attendee.Name,
			Twitter: t.Attendee.Twitter,
			Bio:     t.Attendee.Bio,
			Job:     t.Attendee.Job,
			Company: t.Attendee.Company,
			Diet:    t.Attendee.Diet,
			Tshirt:  t.Attendee.Tshirt,
		},
		TicketCode:    t.TicketCode,
		SpecialStatus: t.SpecialStatus,
		Owner:         t.Owner,
		IsResellable:  t.Resellable.IsResellable,
		MintedAt:      t.MintedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if t.Resellable.IsResellable {
		resp.ResalePrice = conv.Format(t.Resellable.Price)
	}
	return resp
}

// QuoteResponse is the priced breakdown of an order.
type QuoteResponse struct {
	Items []QuoteItemResponse `json:"items"`
	Total string              `json:"total"`
}

// QuoteItemResponse is the priced breakdown of a single item.
type QuoteItemResponse struct {
	Options    []string `json:"options"`
	Subtotal   string   `json:"subtotal"`
	Adjustment string   `json:"adjustment"`
	Discount   string   `json:"discount"`
	Total      string   `json:"total"`
}

// MintResponse reports the token ids created by a mint order.
type MintResponse struct {
	TokenIDs []int64          `json:"token_ids"`
	Tickets  []TicketResponse `json:"tickets"`
}

// OwnerResponse reports a ticket's owner.
type OwnerResponse struct {
	TokenID int64  `json:"token_id"`
	Owner   string `json:"owner"`
}

// TokenURIResponse carries the data-URI metadata for a ticket.
type TokenURIResponse struct {
	TokenID  int64  `json:"token_id"`
	TokenURI string `json:"token_uri"`
}
