package di

import (
	"github.com/gin-gonic/gin"

	"github.com/patcito/nftickets/pkg/config"
	"github.com/patcito/nftickets/pkg/middleware"
)

// SetupRouter builds the HTTP routing table. Read endpoints are public;
// everything that mints, trades or administers requires an authenticated
// caller address and runs behind the rate limiter.
func SetupRouter(c *Container, cfg *config.Config, rateLimit middleware.RateLimitConfig) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(c.Logger),
	)

	r.GET("/health", c.HealthHandler.Health)
	r.GET("/ready", c.HealthHandler.Ready)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/settings", c.TicketHandler.Settings)
		v1.GET("/tickets/:id", c.TicketHandler.Get)
		v1.GET("/tickets/:id/owner", c.TicketHandler.OwnerOf)
		v1.GET("/tickets/:id/uri", c.TicketHandler.TokenURI)
		v1.GET("/tickets/:id/image", c.TicketHandler.Image)
		v1.GET("/owners/:address/tickets", c.TicketHandler.ListByOwner)
	}

	authed := v1.Group("")
	authed.Use(
		middleware.JWTMiddleware(&middleware.JWTConfig{Secret: cfg.JWT.Secret}),
		middleware.RateLimiter(rateLimit),
	)
	{
		authed.POST("/tickets/quote", c.TicketHandler.Quote)
		authed.POST("/tickets", c.TicketHandler.Mint)
		authed.PUT("/tickets/:id/resellable", c.MarketHandler.SetResellable)
		authed.POST("/tickets/:id/resell", c.MarketHandler.Resell)
		authed.GET("/balance/:asset", c.MarketHandler.Balance)
		authed.POST("/balance/withdraw", c.MarketHandler.ClaimBalance)

		admin := authed.Group("/admin")
		{
			admin.PUT("/settings", c.AdminHandler.SetTicketSettings)
			admin.PUT("/options", c.AdminHandler.SetTicketOption)
			admin.PUT("/max-supply", c.AdminHandler.SetMaxSupply)
			admin.PUT("/discounts", c.AdminHandler.SetDiscount)
			admin.PUT("/dao", c.AdminHandler.SetDaoConfig)
			admin.GET("/treasury/:asset", c.AdminHandler.TreasuryBalance)
			admin.POST("/treasury/withdraw", c.AdminHandler.Withdraw)
		}
	}

	return r
}
