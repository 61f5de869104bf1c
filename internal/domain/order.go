package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusValid     OrderStatus = "valid"
	OrderStatusUsed      OrderStatus = "used"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the known order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusValid, OrderStatusUsed, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next.
// Orders are immutable apart from these transitions: a valid order can be
// checked in (used) or cancelled; used and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusValid {
		return false
	}
	return next == OrderStatusUsed || next == OrderStatusCancelled
}

// Order records one completed ticket purchase. The ID is the caller-supplied
// idempotency token; replaying a purchase with the same ID must not create a
// second order.
type Order struct {
	ID         string
	UserID     string
	EventID    string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Status     OrderStatus
	CreatedAt  time.Time
}
