package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/telemetry"
)

// marketService implements MarketService
type marketService struct {
	store     repository.Store
	publisher events.Publisher
	conv      *money.Converter
	metrics   *telemetry.EngineMetrics
	log       *logger.Logger
}

// NewMarketService creates a new MarketService
func NewMarketService(
	store repository.Store,
	publisher events.Publisher,
	conv *money.Converter,
	metrics *telemetry.EngineMetrics,
	log *logger.Logger,
) MarketService {
	return &marketService{
		store:     store,
		publisher: publisher,
		conv:      conv,
		metrics:   metrics,
		log:       log,
	}
}

// SetResellable lists or delists the caller's ticket. Only the current
// owner can change a ticket's listing; the owner check is re-verified
// inside the store commit so a concurrent resale cannot be overridden by
// a stale caller.
func (s *marketService) SetResellable(ctx context.Context, caller string, tokenID int64, req *dto.SetResellableRequest) (*dto.TicketResponse, error) {
	t, err := s.store.Ticket(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(t.Owner, caller) {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, domain.ErrUnauthorized
	}

	listing := domain.Resellable{}
	if req.IsResellable {
		price, err := s.conv.Parse(req.Price)
		if err != nil {
			return nil, ErrInvalidAmount
		}
		listing = domain.Resellable{IsResellable: true, Price: price}
	}

	if err := s.store.CommitListing(ctx, tokenID, t.Owner, listing); err != nil {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, err
	}

	if listing.IsResellable {
		if err := s.publisher.Publish(ctx, &events.Event{
			Type:    events.TypeTicketListed,
			TokenID: tokenID,
			Actor:   t.Owner,
			Amount:  listing.Price,
		}); err != nil {
			s.log.WarnContext(ctx, "failed to publish listing event", zap.Error(err))
		}
	}

	updated, err := s.store.Ticket(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTicketResponse(updated, s.conv)
	return &resp, nil
}

// Resell buys a listed ticket. The payment must meet the listed minimum;
// the full payment then splits between the DAO, the platform and the
// seller, credited to the pull-payment ledger in the same commit that
// transfers ownership and clears the listing.
func (s *marketService) Resell(ctx context.Context, buyer string, tokenID int64, req *dto.ResellRequest) (*dto.TicketResponse, error) {
	t, err := s.store.Ticket(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if !t.Listed() {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, domain.ErrNotListed
	}

	payment, err := s.conv.Parse(req.Payment)
	if err != nil {
		return nil, ErrInvalidAmount
	}
	if payment < t.Resellable.Price {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, domain.ErrPriceTooLow
	}

	dao, err := s.store.DaoConfig(ctx)
	if err != nil {
		return nil, err
	}
	daoShare, platformShare, sellerShare := splitPayment(payment, dao)

	credits := []repository.Credit{
		{Account: strings.ToLower(t.Owner), Asset: t.Asset, Amount: sellerShare},
	}
	if daoShare > 0 {
		credits = append(credits, repository.Credit{
			Account: strings.ToLower(dao.DaoAddress), Asset: t.Asset, Amount: daoShare,
		})
	}
	if platformShare > 0 {
		credits = append(credits, repository.Credit{
			Account: repository.PlatformAccount, Asset: t.Asset, Amount: platformShare,
		})
	}

	// The commit re-verifies the listing the buyer agreed to, so a
	// relist between the read and the commit fails instead of selling
	// at a stale price.
	if err := s.store.CommitResale(ctx, tokenID, t.Owner, strings.ToLower(buyer), t.Resellable.Price, credits); err != nil {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, err
	}

	s.metrics.ResoldTickets.Inc(ctx)
	if err := s.publisher.Publish(ctx, &events.Event{
		Type:    events.TypeTicketResold,
		TokenID: tokenID,
		Actor:   strings.ToLower(buyer),
		Amount:  payment,
	}); err != nil {
		s.log.WarnContext(ctx, "failed to publish resale event", zap.Error(err))
	}

	s.log.InfoContext(ctx, "ticket resold",
		zap.Int64("token_id", tokenID),
		zap.String("seller", t.Owner),
		zap.String("buyer", buyer),
		zap.String("payment", s.conv.Format(payment)),
	)

	updated, err := s.store.Ticket(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTicketResponse(updated, s.conv)
	return &resp, nil
}
