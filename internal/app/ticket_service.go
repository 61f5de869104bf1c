package app

import (
	"context"

	"github.com/entradahq/entrada/internal/domain"
)

// TicketRepository exposes the read and status-transition side of the ledger.
type TicketRepository interface {
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListOrdersByEvent(ctx context.Context, eventID string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}

// TicketService serves ticket queries and check-in transitions. It only ever
// observes committed, consistent states: every order it sees was created in
// the same transaction as its inventory decrement.
type TicketService struct {
	repo TicketRepository
}

func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{repo: repo}
}

func (s *TicketService) OrdersForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *TicketService) OrdersForEvent(ctx context.Context, eventID string) ([]domain.Order, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListOrdersByEvent(ctx, eventID)
}

// MarkUsed checks a ticket in. Only valid orders can be used.
func (s *TicketService) MarkUsed(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusUsed)
}

// Cancel voids a valid order. Inventory is not returned to the pool; refund
// workflows live outside this service.
func (s *TicketService) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled)
}
