package service

import (
	"context"
	"strings"

	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/render"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/money"
)

// ticketService implements TicketService
type ticketService struct {
	store    repository.Store
	renderer render.Renderer
	conv     *money.Converter
}

// NewTicketService creates a new TicketService
func NewTicketService(store repository.Store, renderer render.Renderer, conv *money.Converter) TicketService {
	return &ticketService{store: store, renderer: renderer, conv: conv}
}

// Settings returns the current catalog and supply state
func (s *ticketService) Settings(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.SettingsResponse{
		CatalogName:     settings.CatalogName,
		SettlementAsset: string(settings.SettlementAsset),
		MaxSupply:       settings.MaxSupply,
		MintedCount:     settings.MintedCount,
		Remaining:       settings.Remaining(),
	}
	for _, opt := range settings.Options {
		resp.Options = append(resp.Options, dto.OptionResponse{
			ID:       string(opt.ID),
			Name:     opt.Name,
			Price:    s.conv.Format(opt.BasePrice),
			Disabled: opt.Disabled,
		})
	}
	return resp, nil
}

// Ticket returns a single ticket by token id
func (s *ticketService) Ticket(ctx context.Context, id int64) (*dto.TicketResponse, error) {
	t, err := s.store.Ticket(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTicketResponse(t, s.conv)
	return &resp, nil
}

// TicketsByOwner lists all tickets currently held by an address. Owners
// are stored lowercased, so checksummed input matches too.
func (s *ticketService) TicketsByOwner(ctx context.Context, owner string) ([]dto.TicketResponse, error) {
	tickets, err := s.store.TicketsByOwner(ctx, strings.ToLower(owner))
	if err != nil {
		return nil, err
	}
	out := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, dto.NewTicketResponse(t, s.conv))
	}
	return out, nil
}

// OwnerOf returns the current owner of a token
func (s *ticketService) OwnerOf(ctx context.Context, id int64) (string, error) {
	t, err := s.store.Ticket(ctx, id)
	if err != nil {
		return "", err
	}
	return t.Owner, nil
}

// TokenURI builds the on-token metadata document for a ticket
func (s *ticketService) TokenURI(ctx context.Context, id int64) (string, error) {
	attrs, err := s.attributes(ctx, id)
	if err != nil {
		return "", err
	}
	return render.TokenURI(s.renderer, *attrs)
}

// TokenImage renders the badge image for a ticket
func (s *ticketService) TokenImage(ctx context.Context, id int64) ([]byte, error) {
	attrs, err := s.attributes(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(*attrs)
}

func (s *ticketService) attributes(ctx context.Context, id int64) (*render.TokenAttributes, error) {
	t, err := s.store.Ticket(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return &render.TokenAttributes{
		TokenID:       t.ID,
		CatalogName:   settings.CatalogName,
		OptionName:    t.OptionLabel,
		AttendeeName:  t.Attendee.Name,
		TicketCode:    t.TicketCode,
		SpecialStatus: t.SpecialStatus,
	}, nil
}
