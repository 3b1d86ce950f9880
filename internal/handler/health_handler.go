package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patcito/nftickets/pkg/response"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	serviceName string
	ready       func() error
}

// NewHealthHandler creates a HealthHandler. The ready func probes the
// backing store; nil means always ready.
func NewHealthHandler(serviceName string, ready func() error) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, ready: ready}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{
		"status":  "ok",
		"service": h.serviceName,
	}))
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Error(response.ErrCodeInternalError, "Store unavailable"))
			return
		}
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ready"}))
}
