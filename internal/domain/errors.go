package domain

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrInsufficientTickets     = errors.New("insufficient tickets available")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrOrderIDRequired         = errors.New("order id required")
	ErrDuplicateOrder          = errors.New("duplicate order")
	ErrOrderNotFound           = errors.New("order not found")
	ErrPaymentRequired         = errors.New("payment details required")
	ErrPaymentRejected         = errors.New("payment rejected")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrEventTitleRequired      = errors.New("event title required")
	ErrInvalidPrice            = errors.New("invalid price")
	ErrInvalidCapacity         = errors.New("invalid ticket capacity")
	ErrCapacityBelowSold       = errors.New("total tickets cannot drop below tickets sold")
	ErrInvalidID               = errors.New("invalid id")
)
