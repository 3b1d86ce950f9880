package domain

import "errors"

// Engine error taxonomy. Every failed operation reverts completely; these
// sentinels tell the caller why.
var (
	// ErrUnauthorized means the caller lacks the required privilege
	ErrUnauthorized = errors.New("caller lacks the required privilege")
	// ErrSoldOut means the supply cap would be exceeded
	ErrSoldOut = errors.New("sorry, we're sold out")
	// ErrInvalidOption means an unknown or disabled ticket option was requested
	ErrInvalidOption = errors.New("unknown ticket option")
	// ErrInsufficientPayment means the payment is below the computed total
	ErrInsufficientPayment = errors.New("payment below computed total")
	// ErrPriceTooLow means a resale payment is below the listed minimum price
	ErrPriceTooLow = errors.New("payment below minimum resale price")
	// ErrNotListed means a resale was attempted on a token not currently for sale
	ErrNotListed = errors.New("token is not listed for resale")
	// ErrTicketNotFound means the token id does not exist
	ErrTicketNotFound = errors.New("ticket not found")
)
