package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/entradahq/entrada/internal/clock"
	"github.com/entradahq/entrada/internal/domain"
)

// AdminRepository is the store handle for event administration.
type AdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
	SoldQuantity(ctx context.Context, eventID string) (int, error)
}

// AdminService handles event CRUD. It owns total_tickets but never touches
// available_tickets after creation; that column belongs to purchases.
type AdminService struct {
	repo  AdminRepository
	clock clock.Clock
}

func NewAdminService(repo AdminRepository, clk clock.Clock) *AdminService {
	return &AdminService{repo: repo, clock: clk}
}

type EventInput struct {
	Title        string
	Description  string
	Location     string
	StartsAt     *time.Time
	TicketType   string
	ImageURL     string
	Price        decimal.Decimal
	TotalTickets int
}

func (in EventInput) validate() error {
	if in.Title == "" {
		return domain.ErrEventTitleRequired
	}
	if in.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if in.TotalTickets < 0 {
		return domain.ErrInvalidCapacity
	}
	return nil
}

func (s *AdminService) CreateEvent(ctx context.Context, in EventInput) (domain.Event, error) {
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	now := s.clock.Now()
	startsAt := now
	if in.StartsAt != nil {
		startsAt = *in.StartsAt
	}

	ticketType := in.TicketType
	if ticketType == "" {
		ticketType = "General"
	}

	event := domain.Event{
		ID:               uuid.NewString(),
		Title:            in.Title,
		Description:      in.Description,
		Location:         in.Location,
		StartsAt:         startsAt,
		TicketType:       ticketType,
		ImageURL:         in.ImageURL,
		Price:            in.Price,
		TotalTickets:     in.TotalTickets,
		AvailableTickets: in.TotalTickets,
		CreatedAt:        now,
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

func (s *AdminService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *AdminService) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	return s.repo.GetEvent(ctx, eventID)
}

// UpdateEvent rewrites an event's administrative fields. Capacity changes are
// bounded below by tickets already sold, and never adjust available_tickets.
func (s *AdminService) UpdateEvent(ctx context.Context, eventID string, in EventInput) (domain.Event, error) {
	if eventID == "" {
		return domain.Event{}, domain.ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	current, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Event{}, err
	}

	if in.TotalTickets != current.TotalTickets {
		sold, err := s.repo.SoldQuantity(ctx, eventID)
		if err != nil {
			return domain.Event{}, err
		}
		if in.TotalTickets < sold {
			return domain.Event{}, domain.ErrCapacityBelowSold
		}
	}

	updated := current
	updated.Title = in.Title
	updated.Description = in.Description
	updated.Location = in.Location
	if in.StartsAt != nil {
		updated.StartsAt = *in.StartsAt
	}
	if in.TicketType != "" {
		updated.TicketType = in.TicketType
	}
	updated.ImageURL = in.ImageURL
	updated.Price = in.Price
	updated.TotalTickets = in.TotalTickets

	if err := s.repo.UpdateEvent(ctx, updated); err != nil {
		return domain.Event{}, err
	}
	return updated, nil
}

func (s *AdminService) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return domain.ErrInvalidID
	}
	return s.repo.DeleteEvent(ctx, eventID)
}
