package app

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/entradahq/entrada/internal/clock"
	"github.com/entradahq/entrada/internal/domain"
	"github.com/entradahq/entrada/internal/payment"
)

// PurchaseRepository is the store handle the coordinator drives. WithTx scopes
// one atomic unit of work; the remaining methods run inside it.
type PurchaseRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error)
	DecrementAvailable(ctx context.Context, eventID string, quantity int) (int, error)
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
}

// PurchaseService coordinates the read-check-decrement-append sequence that
// sells tickets. It is the only component that decides commit versus rollback.
type PurchaseService struct {
	repo    PurchaseRepository
	gateway payment.Gateway
	clock   clock.Clock
	logger  *zap.Logger
}

func NewPurchaseService(repo PurchaseRepository, gateway payment.Gateway, clk clock.Clock, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		repo:    repo,
		gateway: gateway,
		clock:   clk,
		logger:  logger,
	}
}

type PurchaseInput struct {
	OrderID  string
	UserID   string
	EventID  string
	Quantity int
	Card     payment.CardDetails
}

type PurchaseResult struct {
	Order     domain.Order
	Remaining int
}

// Purchase executes one ticket purchase as a single atomic unit.
//
// The event row lock taken by GetEventForUpdate is the serialization point:
// between the availability check and the decrement no other purchase for the
// same event can observe or mutate inventory. Purchases for different events
// never block each other. Every error inside the transaction closure rolls
// the whole unit back, so a failed purchase leaves no order and no decrement.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if in.Quantity < 1 {
		return PurchaseResult{}, domain.ErrInvalidQuantity
	}
	if in.OrderID == "" {
		return PurchaseResult{}, domain.ErrOrderIDRequired
	}
	if in.Card.Number == "" {
		return PurchaseResult{}, domain.ErrPaymentRequired
	}

	now := s.clock.Now()
	var result PurchaseResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		// Idempotency guard: a replayed order id must not book twice.
		if existing, err := s.repo.GetOrderByID(txCtx, in.OrderID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrDuplicateOrder
		}

		event, err := s.repo.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}

		if event.AvailableTickets < in.Quantity {
			return domain.ErrInsufficientTickets
		}

		total := event.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		if err := s.gateway.Charge(txCtx, in.Card, total); err != nil {
			return err
		}

		remaining, err := s.repo.DecrementAvailable(txCtx, in.EventID, in.Quantity)
		if err != nil {
			return err
		}

		order := domain.Order{
			ID:         in.OrderID,
			UserID:     in.UserID,
			EventID:    in.EventID,
			Quantity:   in.Quantity,
			UnitPrice:  event.Price,
			TotalPrice: total,
			Status:     domain.OrderStatusValid,
			CreatedAt:  now,
		}
		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}

		result = PurchaseResult{Order: order, Remaining: remaining}
		return nil
	})
	if err != nil {
		return PurchaseResult{}, err
	}

	s.logger.Info("ticket purchase committed",
		zap.String("order_id", result.Order.ID),
		zap.String("event_id", in.EventID),
		zap.Int("quantity", in.Quantity),
		zap.Int("remaining", result.Remaining),
	)
	return result, nil
}
