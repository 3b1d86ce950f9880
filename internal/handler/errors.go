package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/patcito/nftickets/internal/domain"
	"github.com/patcito/nftickets/internal/service"
	"github.com/patcito/nftickets/pkg/money"
	"github.com/patcito/nftickets/pkg/response"
)

// writeError maps an engine error to the response envelope and the HTTP
// status its code carries.
func writeError(c *gin.Context, err error) {
	var code, message string
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		code, message = response.ErrCodeSoldOut, err.Error()
	case errors.Is(err, domain.ErrInvalidOption):
		code, message = response.ErrCodeInvalidOption, "Unknown or disabled ticket option"
	case errors.Is(err, domain.ErrInsufficientPayment):
		code, message = response.ErrCodeInsufficientPayment, "Payment does not cover the quoted total"
	case errors.Is(err, domain.ErrPriceTooLow):
		code, message = response.ErrCodePriceTooLow, "Payment is below the listed resale price"
	case errors.Is(err, domain.ErrNotListed):
		code, message = response.ErrCodeNotListed, "Ticket is not listed for resale"
	case errors.Is(err, domain.ErrUnauthorized):
		code, message = response.ErrCodeUnauthorized, "Caller lacks the required privilege"
	case errors.Is(err, domain.ErrTicketNotFound):
		code, message = response.ErrCodeNotFound, "Ticket not found"
	case errors.Is(err, service.ErrInvalidAmount):
		code, message = response.ErrCodeValidationFailed, "Invalid amount"
	case errors.Is(err, service.ErrInvalidRequest):
		code, message = response.ErrCodeValidationFailed, err.Error()
	case errors.Is(err, money.ErrOverflow):
		code, message = response.ErrCodeValidationFailed, "Order amount out of range"
	case errors.Is(err, service.ErrInvalidDaoConfig):
		code, message = response.ErrCodeValidationFailed, "Invalid fee configuration"
	default:
		code, message = response.ErrCodeInternalError, "An internal error occurred"
	}
	c.JSON(response.GetHTTPStatus(code), response.Error(code, message))
}
