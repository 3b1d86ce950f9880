package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/service"
	"github.com/patcito/nftickets/pkg/middleware"
	"github.com/patcito/nftickets/pkg/response"
)

// MarketHandler handles the secondary-market endpoints, including the
// pull-payment ledger resale proceeds accrue to
type MarketHandler struct {
	marketService   service.MarketService
	treasuryService service.TreasuryService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService service.MarketService, treasuryService service.TreasuryService) *MarketHandler {
	return &MarketHandler{
		marketService:   marketService,
		treasuryService: treasuryService,
	}
}

// SetResellable handles PUT /tickets/:id/resellable - lists or delists
// the caller's ticket
func (h *MarketHandler) SetResellable(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	var req dto.SetResellableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	ticket, err := h.marketService.SetResellable(c.Request.Context(), middleware.CallerAddress(c), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ticket))
}

// Resell handles POST /tickets/:id/resell - buys a listed ticket
func (h *MarketHandler) Resell(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	var req dto.ResellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	ticket, err := h.marketService.Resell(c.Request.Context(), middleware.CallerAddress(c), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ticket))
}

// Balance handles GET /balance/:asset - the caller's own ledger balance
func (h *MarketHandler) Balance(c *gin.Context) {
	asset := domain.SettlementAsset(c.Param("asset"))
	if asset != domain.SettlementNative && asset != domain.SettlementToken {
		c.JSON(http.StatusBadRequest, response.BadRequest("Unknown settlement asset"))
		return
	}

	balance, err := h.treasuryService.AccountBalance(c.Request.Context(), middleware.CallerAddress(c), asset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(balance))
}

// ClaimBalance handles POST /balance/withdraw - pays out the caller's
// accrued resale shares
func (h *MarketHandler) ClaimBalance(c *gin.Context) {
	result, err := h.treasuryService.ClaimBalance(c.Request.Context(), middleware.CallerAddress(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
