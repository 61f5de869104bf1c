package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/entradahq/entrada/internal/app"
	"github.com/entradahq/entrada/internal/domain"
)

type stubEventAdmin struct {
	event  domain.Event
	events []domain.Event
	err    error
}

func (s *stubEventAdmin) CreateEvent(context.Context, app.EventInput) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventAdmin) ListEvents(context.Context) ([]domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventAdmin) GetEvent(context.Context, string) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventAdmin) UpdateEvent(context.Context, string, app.EventInput) (domain.Event, error) {
	return s.event, s.err
}

func (s *stubEventAdmin) DeleteEvent(context.Context, string) error {
	return s.err
}

func newEventRouter(admin EventAdmin) http.Handler {
	return NewRouter(&stubPurchaser{}, &stubTicketReader{}, admin, zap.NewNop(), nil)
}

func TestEventHandlers(t *testing.T) {
	t.Parallel()

	event := domain.Event{
		ID:               "event-1",
		Title:            "Concert",
		TicketType:       "General",
		Price:            decimal.RequireFromString("25.50"),
		TotalTickets:     100,
		AvailableTickets: 40,
	}

	t.Run("list events exposes remaining inventory", func(t *testing.T) {
		router := newEventRouter(&stubEventAdmin{events: []domain.Event{event}})

		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp []eventResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp) != 1 || resp[0].AvailableTickets != 40 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("create event", func(t *testing.T) {
		router := newEventRouter(&stubEventAdmin{event: event})

		body := []byte(`{"title":"Concert","price":"25.50","total_tickets":100}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	})

	t.Run("create event rejects bad price", func(t *testing.T) {
		router := newEventRouter(&stubEventAdmin{event: event})

		body := []byte(`{"title":"Concert","price":"not-a-number","total_tickets":100}`)
		req := httptest.NewRequest(http.MethodPost, "/admin/events", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("capacity below sold conflicts", func(t *testing.T) {
		router := newEventRouter(&stubEventAdmin{err: domain.ErrCapacityBelowSold})

		body := []byte(`{"title":"Concert","price":"25.50","total_tickets":1}`)
		req := httptest.NewRequest(http.MethodPut, "/admin/events/event-1", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("delete event", func(t *testing.T) {
		router := newEventRouter(&stubEventAdmin{})

		req := httptest.NewRequest(http.MethodDelete, "/admin/events/event-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
