package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/gateway"
	"github.com/patcito/nftickets/internal/pricing"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/telemetry"
)

// mintService implements MintService
type mintService struct {
	store        repository.Store
	gw           gateway.SettlementGateway
	publisher    events.Publisher
	conv         *money.Converter
	metrics      *telemetry.EngineMetrics
	log          *logger.Logger
	ownerAddress string
}

// NewMintService creates a new MintService
func NewMintService(
	store repository.Store,
	gw gateway.SettlementGateway,
	publisher events.Publisher,
	conv *money.Converter,
	metrics *telemetry.EngineMetrics,
	log *logger.Logger,
	ownerAddress string,
) MintService {
	return &mintService{
		store:        store,
		gw:           gw,
		publisher:    publisher,
		conv:         conv,
		metrics:      metrics,
		log:          log,
		ownerAddress: ownerAddress,
	}
}

// pricingConfig loads the committed settings, discounts and DAO config
// into a pricing configuration. The discount lookup reads through to the
// store; a read failure is treated as no discount.
func (s *mintService) pricingConfig(ctx context.Context) (*pricing.Config, *domain.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return nil, nil, err
	}
	dao, err := s.store.DaoConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	cfg := &pricing.Config{
		Settings: settings,
		Dao:      dao,
		Discounts: func(key string) *domain.Discount {
			d, err := s.store.Discount(ctx, key)
			if err != nil {
				return nil
			}
			return d
		},
	}
	return cfg, settings, nil
}

// Quote prices an order without minting anything
func (s *mintService) Quote(ctx context.Context, buyer string, req *dto.QuoteRequest) (*dto.QuoteResponse, error) {
	start := time.Now()

	cfg, _, err := s.pricingConfig(ctx)
	if err != nil {
		return nil, err
	}

	requests := make([][]domain.OptionID, 0, len(req.Items))
	for _, item := range req.Items {
		requests = append(requests, toOptionIDs(item.Options))
	}

	total, quotes, err := pricing.QuoteBatch(cfg, buyer, requests)
	if err != nil {
		return nil, err
	}
	s.metrics.QuoteLatency.Record(ctx, time.Since(start).Seconds())

	resp := &dto.QuoteResponse{Total: s.conv.Format(total)}
	for _, q := range quotes {
		options := make([]string, 0, len(q.Options))
		for _, id := range q.Options {
			options = append(options, string(id))
		}
		resp.Items = append(resp.Items, dto.QuoteItemResponse{
			Options:    options,
			Subtotal:   s.conv.Format(q.Subtotal),
			Adjustment: s.conv.Format(q.Adjustment),
			Discount:   s.conv.Format(q.Discount),
			Total:      s.conv.Format(q.Total),
		})
	}
	return resp, nil
}

// Mint executes a purchase. The whole batch is priced against current
// settings, payment is verified (and pulled through the gateway when the
// engine settles in the alternate asset), then every ticket mints in one
// store commit. A failing check leaves no trace.
func (s *mintService) Mint(ctx context.Context, buyer string, req *dto.MintRequest) (*dto.MintResponse, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	}

	cfg, settings, err := s.pricingConfig(ctx)
	if err != nil {
		return nil, err
	}

	// Special statuses are an owner privilege
	for _, item := range req.Items {
		if item.SpecialStatus != "" && !strings.EqualFold(buyer, s.ownerAddress) {
			s.metrics.FailedRequests.Inc(ctx)
			return nil, domain.ErrUnauthorized
		}
	}

	requests := make([][]domain.OptionID, 0, len(req.Items))
	for _, item := range req.Items {
		requests = append(requests, toOptionIDs(item.Options))
	}
	total, quotes, err := pricing.QuoteBatch(cfg, buyer, requests)
	if err != nil {
		s.metrics.FailedRequests.Inc(ctx)
		return nil, err
	}

	payment, err := s.conv.Parse(req.Payment)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	tickets := make([]*domain.Ticket, 0, len(req.Items))
	for i, item := range req.Items {
		resellable := domain.Resellable{}
		if item.Resellable != nil && item.Resellable.IsResellable {
			price, err := s.conv.Parse(item.Resellable.Price)
			if err != nil {
				return nil, ErrInvalidAmount
			}
			resellable = domain.Resellable{IsResellable: true, Price: price}
		}
		tickets = append(tickets, &domain.Ticket{
			Options:       quotes[i].Options,
			OptionLabel:   optionLabel(settings, quotes[i].Options),
			PricePaid:     quotes[i].Total,
			Attendee:      item.Attendee.ToDomain(),
			TicketCode:    item.TicketCode,
			SpecialStatus: item.SpecialStatus,
			Owner:         strings.ToLower(buyer),
			Resellable:    resellable,
			Asset:         settings.SettlementAsset,
			MintedAt:      now,
			UpdatedAt:     now,
		})
	}

	credit := &repository.Credit{
		Account: repository.PlatformAccount,
		Asset:   settings.SettlementAsset,
		Amount:  payment,
	}
	var receipt *gateway.Receipt
	switch settings.SettlementAsset {
	case domain.SettlementToken:
		// Alternate-asset orders pull exactly the quoted total; the
		// payment field is informational.
		receipt, err = s.gw.Pull(ctx, buyer, total, req.PaymentReference)
		if err != nil {
			s.metrics.FailedRequests.Inc(ctx)
			return nil, err
		}
		credit.Amount = total
	default:
		// Native orders must attach at least the total. Overpayment is
		// kept by the platform, matching the quoted-total contract: pay
		// what the quote says or lose the difference.
		if payment < total {
			s.metrics.FailedRequests.Inc(ctx)
			return nil, domain.ErrInsufficientPayment
		}
	}

	ids, err := s.store.MintBatch(ctx, tickets, credit)
	if err != nil {
		s.metrics.FailedRequests.Inc(ctx)
		if receipt != nil {
			// The pull already settled; return it before failing
			if _, refundErr := s.gw.Payout(ctx, buyer, settings.SettlementAsset, credit.Amount, receipt.TransactionID); refundErr != nil {
				s.log.ErrorContext(ctx, "failed to refund pulled payment",
					zap.String("buyer", buyer),
					zap.Error(refundErr),
				)
			}
		}
		return nil, err
	}

	s.metrics.MintedTickets.Add(ctx, int64(len(ids)))
	s.metrics.MintedSupply.Record(ctx, settings.MintedCount+int64(len(ids)))

	resp := &dto.MintResponse{TokenIDs: ids}
	for i, t := range tickets {
		t.ID = ids[i]
		resp.Tickets = append(resp.Tickets, dto.NewTicketResponse(t, s.conv))
		if err := s.publisher.Publish(ctx, &events.Event{
			Type:    events.TypeTicketMinted,
			TokenID: t.ID,
			Actor:   t.Owner,
			Amount:  t.PricePaid,
		}); err != nil {
			s.log.WarnContext(ctx, "failed to publish mint event", zap.Error(err))
		}
	}

	s.log.InfoContext(ctx, "minted tickets",
		zap.String("buyer", buyer),
		zap.Int("count", len(ids)),
		zap.String("total", s.conv.Format(total)),
	)
	return resp, nil
}

func toOptionIDs(ids []string) []domain.OptionID {
	out := make([]domain.OptionID, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.OptionID(id))
	}
	return out
}

// optionLabel snapshots the human-readable names of the chosen options
func optionLabel(settings *domain.Settings, ids []domain.OptionID) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if opt := settings.Option(id); opt != nil {
			names = append(names, opt.Name)
		}
	}
	return strings.Join(names, " + ")
}
