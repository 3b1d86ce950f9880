// Package di wires the engine's dependency graph.
package di

import (
	"github.com/patcito/nftickets/internal/events"
	"github.com/patcito/nftickets/internal/gateway"
	"github.com/patcito/nftickets/internal/handler"
	"github.com/patcito/nftickets/internal/render"
	"github.com/patcito/nftickets/internal/repository"
	"github.com/patcito/nftickets/internal/service"
	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/telemetry"
)

// Container holds all dependencies for the engine
type Container struct {
	// Infrastructure
	Store     repository.Store
	Gateway   gateway.SettlementGateway
	Publisher events.Publisher
	Renderer  render.Renderer
	Converter *money.Converter
	Metrics   *telemetry.EngineMetrics
	Logger    *logger.Logger

	// Services
	MintService     service.MintService
	TicketService   service.TicketService
	MarketService   service.MarketService
	AdminService    service.AdminService
	TreasuryService service.TreasuryService

	// Handlers
	TicketHandler *handler.TicketHandler
	MarketHandler *handler.MarketHandler
	AdminHandler  *handler.AdminHandler
	HealthHandler *handler.HealthHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Store        repository.Store
	Gateway      gateway.SettlementGateway
	Publisher    events.Publisher
	Renderer     render.Renderer
	Converter    *money.Converter
	Metrics      *telemetry.EngineMetrics
	Logger       *logger.Logger
	OwnerAddress string
	ServiceName  string
	// Ready probes the backing store for the readiness endpoint
	Ready func() error
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		Store:     cfg.Store,
		Gateway:   cfg.Gateway,
		Publisher: cfg.Publisher,
		Renderer:  cfg.Renderer,
		Converter: cfg.Converter,
		Metrics:   cfg.Metrics,
		Logger:    cfg.Logger,
	}

	// Initialize services
	c.TicketService = service.NewTicketService(c.Store, c.Renderer, c.Converter)
	c.MintService = service.NewMintService(
		c.Store, c.Gateway, c.Publisher, c.Converter, c.Metrics, c.Logger, cfg.OwnerAddress,
	)
	c.MarketService = service.NewMarketService(
		c.Store, c.Publisher, c.Converter, c.Metrics, c.Logger,
	)
	c.AdminService = service.NewAdminService(
		c.Store, c.TicketService, c.Converter, c.Logger, cfg.OwnerAddress,
	)
	c.TreasuryService = service.NewTreasuryService(
		c.Store, c.Gateway, c.Publisher, c.Converter, c.Logger, cfg.OwnerAddress,
	)

	// Initialize handlers
	c.TicketHandler = handler.NewTicketHandler(c.MintService, c.TicketService)
	c.MarketHandler = handler.NewMarketHandler(c.MarketService, c.TreasuryService)
	c.AdminHandler = handler.NewAdminHandler(c.AdminService, c.TreasuryService)
	c.HealthHandler = handler.NewHealthHandler(cfg.ServiceName, cfg.Ready)

	return c
}
