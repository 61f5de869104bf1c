package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/entradahq/entrada/internal/domain"
)

// EventRepository covers the administrative side of events. It never touches
// available_tickets except when creating an event; that column belongs to the
// purchase transaction.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (id, title, description, location, starts_at, ticket_type, image_url,
	price, total_tickets, available_tickets, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8::numeric, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.TicketType,
		event.ImageURL,
		event.Price.String(),
		event.TotalTickets,
		event.AvailableTickets,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY starts_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEventRow(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, err
	}
	return e, nil
}

// UpdateEvent rewrites the administrative fields of an event. It deliberately
// leaves available_tickets alone: changing capacity does not retroactively
// top up or invalidate existing sales bookkeeping.
func (r *EventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
UPDATE events
SET title = $2, description = $3, location = $4, starts_at = $5, ticket_type = $6,
	image_url = NULLIF($7, ''), price = $8::numeric, total_tickets = $9
WHERE id = $1`

	tag, err := r.pool.Exec(ctx, stmt,
		event.ID,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.TicketType,
		event.ImageURL,
		event.Price.String(),
		event.TotalTickets,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// SoldQuantity sums the valid-order quantities for an event; used to refuse
// capacity edits that would drop total_tickets below what is already sold.
func (r *EventRepository) SoldQuantity(ctx context.Context, eventID string) (int, error) {
	const query = `
SELECT COALESCE(SUM(quantity), 0)
FROM orders
WHERE event_id = $1 AND status = 'valid'`

	var total int
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&total); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("sum sold quantity: %w", err)
	}
	return total, nil
}

func scanEventRow(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var price string
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.TicketType,
		&e.ImageURL, &price, &e.TotalTickets, &e.AvailableTickets, &e.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	if e.Price, err = decimal.NewFromString(price); err != nil {
		return domain.Event{}, fmt.Errorf("parse event price: %w", err)
	}
	return e, nil
}
