package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
)

// adminService implements AdminService
type adminService struct {
	store        repository.Store
	tickets      TicketService
	conv         *money.Converter
	log          *logger.Logger
	ownerAddress string
}

// NewAdminService creates a new AdminService
func NewAdminService(
	store repository.Store,
	tickets TicketService,
	conv *money.Converter,
	log *logger.Logger,
	ownerAddress string,
) AdminService {
	return &adminService{
		store:        store,
		tickets:      tickets,
		conv:         conv,
		log:          log,
		ownerAddress: ownerAddress,
	}
}

func (s *adminService) requireOwner(caller string) error {
	if !strings.EqualFold(caller, s.ownerAddress) {
		return domain.ErrUnauthorized
	}
	return nil
}

// SetTicketSettings replaces the catalog name and option list. The supply
// counters and settlement asset are untouched; already-minted tickets keep
// their snapshotted option names and prices.
func (s *adminService) SetTicketSettings(ctx context.Context, caller string, req *dto.SetTicketSettingsRequest) (*dto.SettingsResponse, error) {
	if err := s.requireOwner(caller); err != nil {
		return nil, err
	}
	if valid, msg := req.Validate(); !valid {
		return nil, errors.New(msg)
	}

	current, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]domain.TicketOption, 0, len(req.Options))
	for _, opt := range req.Options {
		price, err := s.conv.Parse(opt.Price)
		if err != nil {
			return nil, ErrInvalidAmount
		}
		options = append(options, domain.TicketOption{
			ID:        domain.OptionID(opt.ID),
			Name:      opt.Name,
			BasePrice: price,
			Disabled:  opt.Disabled,
		})
	}

	next := &domain.Settings{
		CatalogName:     req.CatalogName,
		Options:         options,
		SettlementAsset: current.SettlementAsset,
		AssetReference:  current.AssetReference,
	}
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "ticket settings updated",
		zap.String("catalog", req.CatalogName),
		zap.Int("options", len(options)),
	)
	return s.tickets.Settings(ctx)
}

// SetTicketOption upserts a single catalog option by ID, leaving the rest
// of the catalog in place.
func (s *adminService) SetTicketOption(ctx context.Context, caller string, req *dto.SetTicketOptionRequest) (*dto.SettingsResponse, error) {
	if err := s.requireOwner(caller); err != nil {
		return nil, err
	}
	price, err := s.conv.Parse(req.Price)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	current, err := s.store.Settings(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Options = append([]domain.TicketOption(nil), current.Options...)
	opt := domain.TicketOption{
		ID:        domain.OptionID(req.ID),
		Name:      req.Name,
		BasePrice: price,
		Disabled:  req.Disabled,
	}
	replaced := false
	for i := range next.Options {
		if next.Options[i].ID == opt.ID {
			next.Options[i] = opt
			replaced = true
			break
		}
	}
	if !replaced {
		next.Options = append(next.Options, opt)
	}
	if err := s.store.SaveSettings(ctx, &next); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "ticket option updated",
		zap.String("option", req.ID),
		zap.Bool("created", !replaced),
	)
	return s.tickets.Settings(ctx)
}

// SetMaxSupply adjusts the mint cap. Lowering it below the minted count
// blocks further mints without invalidating existing tokens.
func (s *adminService) SetMaxSupply(ctx context.Context, caller string, req *dto.SetMaxSupplyRequest) (*dto.SettingsResponse, error) {
	if err := s.requireOwner(caller); err != nil {
		return nil, err
	}
	if err := s.store.SetMaxSupply(ctx, req.MaxSupply); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "max supply updated", zap.Int64("max_supply", req.MaxSupply))
	return s.tickets.Settings(ctx)
}

// SetDiscount grants a buyer a flat discount for exactly the given option
// set. Setting a new amount for the same buyer and set overwrites the old
// one.
func (s *adminService) SetDiscount(ctx context.Context, caller string, req *dto.SetDiscountRequest) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	amount, err := s.conv.Parse(req.Amount)
	if err != nil {
		return ErrInvalidAmount
	}
	d := &domain.Discount{
		Buyer:        strings.ToLower(req.Buyer),
		OptionSetKey: domain.OptionSetKey(toOptionIDs(req.Options)),
		Amount:       amount,
	}
	if err := s.store.SaveDiscount(ctx, d); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "discount set",
		zap.String("buyer", d.Buyer),
		zap.String("options", d.OptionSetKey),
	)
	return nil
}

// SetDaoConfig replaces the fee split and the DAO price adjustment
func (s *adminService) SetDaoConfig(ctx context.Context, caller string, req *dto.SetDaoConfigRequest) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}

	cfg := &domain.DaoConfig{
		DaoAddress:  strings.ToLower(req.DaoAddress),
		PlatformPct: req.PlatformPct,
		DaoPct:      req.DaoPct,
	}
	if req.AdjustPct > 0 || req.Policy != "" {
		allowlist := make([]string, 0, len(req.Allowlist))
		for _, addr := range req.Allowlist {
			allowlist = append(allowlist, strings.ToLower(addr))
		}
		policy := domain.AdjustmentPolicy(req.Policy)
		if policy == "" {
			policy = domain.AdjustNever
		}
		cfg.Adjustment = &domain.PriceAdjustment{
			Percent:   req.AdjustPct,
			Policy:    policy,
			Allowlist: allowlist,
		}
	}
	if !cfg.Valid() {
		return ErrInvalidDaoConfig
	}
	if err := s.store.SaveDaoConfig(ctx, cfg); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "dao config updated",
		zap.String("dao_address", cfg.DaoAddress),
		zap.Int64("platform_pct", cfg.PlatformPct),
		zap.Int64("dao_pct", cfg.DaoPct),
	)
	return nil
}
