package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/gateway"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
)

// treasuryService implements TreasuryService
type treasuryService struct {
	store        repository.Store
	gw           gateway.SettlementGateway
	publisher    events.Publisher
	conv         *money.Converter
	log          *logger.Logger
	ownerAddress string
}

// NewTreasuryService creates a new TreasuryService
func NewTreasuryService(
	store repository.Store,
	gw gateway.SettlementGateway,
	publisher events.Publisher,
	conv *money.Converter,
	log *logger.Logger,
	ownerAddress string,
) TreasuryService {
	return &treasuryService{
		store:        store,
		gw:           gw,
		publisher:    publisher,
		conv:         conv,
		log:          log,
		ownerAddress: ownerAddress,
	}
}

// Balance reports the platform treasury balance. Owner only.
func (s *treasuryService) Balance(ctx context.Context, caller string, asset domain.SettlementAsset) (*dto.BalanceResponse, error) {
	if !strings.EqualFold(caller, s.ownerAddress) {
		return nil, domain.ErrUnauthorized
	}
	return s.accountBalance(ctx, repository.PlatformAccount, asset)
}

// AccountBalance reports the caller's own ledger balance: resale
// proceeds for sellers, fee shares for the DAO address.
func (s *treasuryService) AccountBalance(ctx context.Context, caller string, asset domain.SettlementAsset) (*dto.BalanceResponse, error) {
	return s.accountBalance(ctx, strings.ToLower(caller), asset)
}

func (s *treasuryService) accountBalance(ctx context.Context, account string, asset domain.SettlementAsset) (*dto.BalanceResponse, error) {
	amount, err := s.store.Balance(ctx, account, asset)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		Account: account,
		Asset:   string(asset),
		Amount:  s.conv.Format(amount),
	}, nil
}

// Withdraw drains every platform balance and pays it out to the owner.
// Owner only.
func (s *treasuryService) Withdraw(ctx context.Context, caller string) (*dto.WithdrawResponse, error) {
	if !strings.EqualFold(caller, s.ownerAddress) {
		return nil, domain.ErrUnauthorized
	}
	return s.drainAndPay(ctx, repository.PlatformAccount, s.ownerAddress, "treasury-withdraw", events.TypeTreasuryWithdrawn)
}

// ClaimBalance drains the caller's own ledger balances and pays them
// out to the caller. This is how sellers and the DAO collect their
// resale shares.
func (s *treasuryService) ClaimBalance(ctx context.Context, caller string) (*dto.WithdrawResponse, error) {
	return s.drainAndPay(ctx, strings.ToLower(caller), caller, "balance-claim", events.TypeBalanceClaimed)
}

// drainAndPay zeroes each asset balance of the account in its own
// commit before the corresponding payout call, so a gateway failure can
// never double-pay: the ledger already records the funds as gone.
func (s *treasuryService) drainAndPay(ctx context.Context, account, recipient, reference, eventType string) (*dto.WithdrawResponse, error) {
	resp := &dto.WithdrawResponse{}
	for _, asset := range []domain.SettlementAsset{domain.SettlementNative, domain.SettlementToken} {
		amount, err := s.store.DrainBalance(ctx, account, asset)
		if err != nil {
			return nil, err
		}
		if amount == 0 {
			continue
		}

		if _, err := s.gw.Payout(ctx, recipient, asset, amount, reference); err != nil {
			s.log.ErrorContext(ctx, "payout failed after drain",
				zap.String("account", account),
				zap.String("asset", string(asset)),
				zap.String("amount", s.conv.Format(amount)),
				zap.Error(err),
			)
			return nil, err
		}

		resp.Withdrawn = append(resp.Withdrawn, dto.BalanceResponse{
			Account: account,
			Asset:   string(asset),
			Amount:  s.conv.Format(amount),
		})
		if err := s.publisher.Publish(ctx, &events.Event{
			Type:   eventType,
			Actor:  strings.ToLower(recipient),
			Amount: amount,
		}); err != nil {
			s.log.WarnContext(ctx, "failed to publish payout event", zap.Error(err))
		}
	}

	s.log.InfoContext(ctx, "balances paid out",
		zap.String("account", account),
		zap.Int("payouts", len(resp.Withdrawn)),
	)
	return resp, nil
}
