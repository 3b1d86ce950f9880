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

// AdminHandler handles the owner-only endpoints. Ownership is enforced
// by the services; the handler only relays the caller address.
type AdminHandler struct {
	adminService    service.AdminService
	treasuryService service.TreasuryService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, treasuryService service.TreasuryService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		treasuryService: treasuryService,
	}
}

// SetTicketSettings handles PUT /admin/settings
func (h *AdminHandler) SetTicketSettings(c *gin.Context) {
	var req dto.SetTicketSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(map[string]string{"options": msg}))
		return
	}

	settings, err := h.adminService.SetTicketSettings(c.Request.Context(), middleware.CallerAddress(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// SetTicketOption handles PUT /admin/options
func (h *AdminHandler) SetTicketOption(c *gin.Context) {
	var req dto.SetTicketOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	settings, err := h.adminService.SetTicketOption(c.Request.Context(), middleware.CallerAddress(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// SetMaxSupply handles PUT /admin/max-supply
func (h *AdminHandler) SetMaxSupply(c *gin.Context) {
	var req dto.SetMaxSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	settings, err := h.adminService.SetMaxSupply(c.Request.Context(), middleware.CallerAddress(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// SetDiscount handles PUT /admin/discounts
func (h *AdminHandler) SetDiscount(c *gin.Context) {
	var req dto.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if err := h.adminService.SetDiscount(c.Request.Context(), middleware.CallerAddress(c), &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(nil))
}

// SetDaoConfig handles PUT /admin/dao
func (h *AdminHandler) SetDaoConfig(c *gin.Context) {
	var req dto.SetDaoConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	if err := h.adminService.SetDaoConfig(c.Request.Context(), middleware.CallerAddress(c), &req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(nil))
}

// TreasuryBalance handles GET /admin/treasury/:asset
func (h *AdminHandler) TreasuryBalance(c *gin.Context) {
	asset := domain.SettlementAsset(c.Param("asset"))
	if asset != domain.SettlementNative && asset != domain.SettlementToken {
		c.JSON(http.StatusBadRequest, response.BadRequest("Unknown settlement asset"))
		return
	}

	balance, err := h.treasuryService.Balance(c.Request.Context(), middleware.CallerAddress(c), asset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(balance))
}

// Withdraw handles POST /admin/treasury/withdraw
func (h *AdminHandler) Withdraw(c *gin.Context) {
	result, err := h.treasuryService.Withdraw(c.Request.Context(), middleware.CallerAddress(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}
