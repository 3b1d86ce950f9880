package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/gateway"
	"github.com/patcito/nftickets/internal/render"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/telemetry"
)

const (
	testOwner = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	testBuyer = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	testOther = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
)

// testEnv wires every service against the in-memory store, the mock
// gateway and a noop publisher.
type testEnv struct {
	store    *repository.MemoryStore
	gw       *gateway.MockGateway
	conv     *money.Converter
	metrics  *telemetry.EngineMetrics
	log      *logger.Logger
	mint     MintService
	tickets  TicketService
	market   MarketService
	admin    AdminService
	treasury TreasuryService
}

func newTestEnv(t *testing.T, maxSupply int64) *testEnv {
	t.Helper()

	settings := &domain.Settings{
		CatalogName:     "ETHDubai 2022",
		Options:         domain.DefaultOptions(),
		SettlementAsset: domain.SettlementNative,
		MaxSupply:       maxSupply,
	}
	return newTestEnvWithSettings(t, settings)
}

func newTestEnvWithSettings(t *testing.T, settings *domain.Settings) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore(settings)
	gw := gateway.NewMockGateway()
	pub := events.NoopPublisher{}
	conv, err := money.NewConverter(18)
	require.NoError(t, err)
	metrics, err := telemetry.NewEngineMetrics()
	require.NoError(t, err)
	log, err := logger.New(&logger.Config{Level: "error", ServiceName: "engine-test", Development: true})
	require.NoError(t, err)

	tickets := NewTicketService(store, render.NewSVGRenderer(settings.CatalogName), conv)
	return &testEnv{
		store:    store,
		gw:       gw,
		conv:     conv,
		metrics:  metrics,
		log:      log,
		mint:     NewMintService(store, gw, pub, conv, metrics, log, testOwner),
		tickets:  tickets,
		market:   NewMarketService(store, pub, conv, metrics, log),
		admin:    NewAdminService(store, tickets, conv, log, testOwner),
		treasury: NewTreasuryService(store, gw, pub, conv, log, testOwner),
	}
}

func (e *testEnv) amount(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := e.conv.Parse(s)
	require.NoError(t, err)
	return a
}

// conferenceOrder builds a one-ticket conference order with the given
// attached payment.
func conferenceOrder(payment string) *dto.MintRequest {
	return &dto.MintRequest{
		Items: []dto.MintItemRequest{{
			Options:  []string{string(domain.OptionConference)},
			Attendee: dto.AttendeeRequest{Email: "patrick@example.com", Name: "Patrick"},
		}},
		Payment: payment,
	}
}

// mintOne mints a single conference ticket for the buyer, paying exactly
// the base price.
func (e *testEnv) mintOne(t *testing.T, buyer string) int64 {
	t.Helper()
	resp, err := e.mint.Mint(context.Background(), buyer, conferenceOrder("0.1"))
	require.NoError(t, err)
	require.Len(t, resp.TokenIDs, 1)
	return resp.TokenIDs[0]
}
