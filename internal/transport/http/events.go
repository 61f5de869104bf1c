package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/entradahq/entrada/internal/app"
	"github.com/entradahq/entrada/internal/domain"
)

// EventAdmin is the minimal interface needed for event administration.
type EventAdmin interface {
	CreateEvent(ctx context.Context, in app.EventInput) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, eventID string, in app.EventInput) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// HandleListEvents returns the handler for GET /events.
func HandleListEvents(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, toEventResponse(e))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}

// HandleGetEvent returns the handler for GET /events/{eventID}.
func HandleGetEvent(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := svc.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeEvent(w, http.StatusOK, event)
	}
}

// HandleCreateEvent returns the handler for POST /admin/events.
func HandleCreateEvent(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeEventInput(w, r)
		if !ok {
			return
		}
		event, err := svc.CreateEvent(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeEvent(w, http.StatusCreated, event)
	}
}

// HandleUpdateEvent returns the handler for PUT /admin/events/{eventID}.
func HandleUpdateEvent(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeEventInput(w, r)
		if !ok {
			return
		}
		event, err := svc.UpdateEvent(r.Context(), chi.URLParam(r, "eventID"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeEvent(w, http.StatusOK, event)
	}
}

// HandleDeleteEvent returns the handler for DELETE /admin/events/{eventID}.
func HandleDeleteEvent(svc EventAdmin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteEvent(r.Context(), chi.URLParam(r, "eventID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type eventRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	StartsAt     *time.Time `json:"starts_at"`
	TicketType   string     `json:"ticket_type"`
	ImageURL     string     `json:"image_url"`
	Price        string     `json:"price"`
	TotalTickets int        `json:"total_tickets"`
}

func decodeEventInput(w http.ResponseWriter, r *http.Request) (app.EventInput, bool) {
	var req eventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return app.EventInput{}, false
	}

	price := decimal.Zero
	if req.Price != "" {
		var err error
		if price, err = decimal.NewFromString(req.Price); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "invalid price")
			return app.EventInput{}, false
		}
	}

	return app.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartsAt:     req.StartsAt,
		TicketType:   req.TicketType,
		ImageURL:     req.ImageURL,
		Price:        price,
		TotalTickets: req.TotalTickets,
	}, true
}

type eventResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	StartsAt         time.Time `json:"starts_at"`
	TicketType       string    `json:"ticket_type"`
	ImageURL         string    `json:"image_url,omitempty"`
	Price            string    `json:"price"`
	TotalTickets     int       `json:"total_tickets"`
	AvailableTickets int       `json:"available_tickets"`
	CreatedAt        time.Time `json:"created_at"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		StartsAt:         e.StartsAt,
		TicketType:       e.TicketType,
		ImageURL:         e.ImageURL,
		Price:            e.Price.String(),
		TotalTickets:     e.TotalTickets,
		AvailableTickets: e.AvailableTickets,
		CreatedAt:        e.CreatedAt,
	}
}

func writeEvent(w http.ResponseWriter, status int, e domain.Event) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(toEventResponse(e))
}
