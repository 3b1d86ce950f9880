// Package handler exposes the engine over HTTP. Handlers bind and
// validate requests, resolve the caller identity set by the auth
// middleware and translate service errors into the response envelope.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/patcito/nftickets/internal/dto"
	"github.com/patcito/nftickets/internal/service"
	"github.com/patcito/nftickets/pkg/middleware"
	"github.com/patcito/nftickets/pkg/response"
)

// TicketHandler handles catalog, quoting, minting and token views
type TicketHandler struct {
	mintService   service.MintService
	ticketService service.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(mintService service.MintService, ticketService service.TicketService) *TicketHandler {
	return &TicketHandler{
		mintService:   mintService,
		ticketService: ticketService,
	}
}

// Settings handles GET /settings - returns the catalog and supply state
func (h *TicketHandler) Settings(c *gin.Context) {
	settings, err := h.ticketService.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// Quote handles POST /tickets/quote - prices an order without minting
func (h *TicketHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	quote, err := h.mintService.Quote(c.Request.Context(), middleware.CallerAddress(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(quote))
}

// Mint handles POST /tickets - purchases one or more tickets
func (h *TicketHandler) Mint(c *gin.Context) {
	var req dto.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.ValidationFailed(map[string]string{"items": msg}))
		return
	}

	minted, err := h.mintService.Mint(c.Request.Context(), middleware.CallerAddress(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(minted))
}

// Get handles GET /tickets/:id - returns a single ticket
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	ticket, err := h.ticketService.Ticket(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(ticket))
}

// ListByOwner handles GET /owners/:address/tickets
func (h *TicketHandler) ListByOwner(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, response.BadRequest("Address is required"))
		return
	}
	tickets, err := h.ticketService.TicketsByOwner(c.Request.Context(), address)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(tickets))
}

// OwnerOf handles GET /tickets/:id/owner
func (h *TicketHandler) OwnerOf(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	owner, err := h.ticketService.OwnerOf(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.OwnerResponse{TokenID: id, Owner: owner}))
}

// TokenURI handles GET /tickets/:id/uri - returns the metadata data URI
func (h *TicketHandler) TokenURI(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	uri, err := h.ticketService.TokenURI(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.TokenURIResponse{TokenID: id, TokenURI: uri}))
}

// Image handles GET /tickets/:id/image - serves the badge as SVG
func (h *TicketHandler) Image(c *gin.Context) {
	id, ok := tokenID(c)
	if !ok {
		return
	}
	image, err := h.ticketService.TokenImage(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", image)
}

// tokenID parses the :id path parameter, writing the error response on
// failure.
func tokenID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid token id"))
		return 0, false
	}
	return id, true
}
