package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/entradahq/entrada/internal/domain"
)

// PurchaseRepository persists the two sides of a ticket purchase: the event
// inventory row and the append-only order ledger. All mutating methods are
// meant to run inside WithTx.
type PurchaseRepository struct {
	pool *pgxpool.Pool
}

func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{pool: pool}
}

func (r *PurchaseRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `id, title, description, location, starts_at, ticket_type,
COALESCE(image_url, ''), price::text, total_tickets, available_tickets, created_at`

// GetEventForUpdate locks the event row for the duration of the enclosing
// transaction. This is the serialization point for concurrent purchases
// against the same event; purchases for other events are unaffected.
func (r *PurchaseRepository) GetEventForUpdate(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return r.scanEvent(r.queryRow(ctx, query, eventID))
}

// GetEvent reads an event without locking it.
func (r *PurchaseRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.scanEvent(r.queryRow(ctx, query, eventID))
}

// DecrementAvailable atomically subtracts quantity from the event's available
// tickets and returns the new count. The WHERE guard refuses any decrement
// that would drive the count negative, so even a caller that skipped the row
// lock cannot oversell.
func (r *PurchaseRepository) DecrementAvailable(ctx context.Context, eventID string, quantity int) (int, error) {
	const stmt = `
UPDATE events
SET available_tickets = available_tickets - $2
WHERE id = $1 AND available_tickets >= $2
RETURNING available_tickets`

	var remaining int
	err := r.queryRow(ctx, stmt, eventID, quantity).Scan(&remaining)
	if err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return 0, domain.ErrInsufficientTickets
		}
		return 0, fmt.Errorf("decrement available: %w", err)
	}
	return remaining, nil
}

const orderColumns = `id, user_id, event_id, quantity, unit_price::text, total_price::text, status, created_at`

// GetOrderByID returns the order with the given id, or nil when none exists.
func (r *PurchaseRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := r.scanOrder(r.queryRow(ctx, query, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// CreateOrder appends one order to the ledger. Order ids are unique; a
// replayed id fails with ErrDuplicateOrder rather than double-booking.
func (r *PurchaseRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, user_id, event_id, quantity, unit_price, total_price, status, created_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.UserID,
		order.EventID,
		order.Quantity,
		order.UnitPrice.String(),
		order.TotalPrice.String(),
		string(order.Status),
		order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrder
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (r *PurchaseRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.listOrders(ctx, query, userID)
}

// ListOrdersByEvent returns all orders for an event, oldest first.
func (r *PurchaseRepository) ListOrdersByEvent(ctx context.Context, eventID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE event_id = $1 ORDER BY created_at ASC`

	orders, err := r.listOrders(ctx, query, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to the given status, enforcing the
// allowed-transition rules inside a row lock on the order.
func (r *PurchaseRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	var updated domain.Order
	err := r.WithTx(ctx, func(txCtx context.Context) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
		current, err := r.scanOrder(r.queryRow(txCtx, query, orderID))
		if err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("get order for update: %w", err)
		}

		if !current.Status.CanTransitionTo(status) {
			return domain.ErrInvalidStatusTransition
		}

		if _, err := r.exec(txCtx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status)); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		current.Status = status
		updated = current
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return updated, nil
}

func (r *PurchaseRepository) listOrders(ctx context.Context, query string, arg any) ([]domain.Order, error) {
	rows, err := r.query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PurchaseRepository) scanEvent(row pgx.Row) (domain.Event, error) {
	e, err := scanEventRow(row)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("scan event: %w", err)
	}
	return e, nil
}

func (r *PurchaseRepository) scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var unitPrice, totalPrice, status string
	err := row.Scan(&o.ID, &o.UserID, &o.EventID, &o.Quantity, &unitPrice, &totalPrice, &status, &o.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	if o.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
		return domain.Order{}, fmt.Errorf("parse unit price: %w", err)
	}
	if o.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return domain.Order{}, fmt.Errorf("parse total price: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return o, nil
}

func (r *PurchaseRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PurchaseRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *PurchaseRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
