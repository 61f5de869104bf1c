package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a ticketed event with quantity-based inventory.
// AvailableTickets is only ever decremented by the purchase transaction;
// administrative edits to TotalTickets never adjust it.
type Event struct {
	ID               string
	Title            string
	Description      string
	Location         string
	StartsAt         time.Time
	TicketType       string
	ImageURL         string
	Price            decimal.Decimal
	TotalTickets     int
	AvailableTickets int
	CreatedAt        time.Time
}

// Sold returns the number of tickets accounted for by valid orders.
func (e Event) Sold() int {
	return e.TotalTickets - e.AvailableTickets
}

// SoldOut reports whether no tickets remain.
func (e Event) SoldOut() bool {
	return e.AvailableTickets <= 0
}
