package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/entradahq/entrada/internal/domain"
)

// TicketReader serves ticket queries and check-in transitions.
type TicketReader interface {
	OrdersForUser(ctx context.Context, userID string) ([]domain.Order, error)
	OrdersForEvent(ctx context.Context, eventID string) ([]domain.Order, error)
	MarkUsed(ctx context.Context, orderID string) (domain.Order, error)
	Cancel(ctx context.Context, orderID string) (domain.Order, error)
}

// HandleMyTickets returns the handler for GET /tickets/my-tickets.
func HandleMyTickets(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, codeUserIdentityRequired, "user identity required")
			return
		}

		orders, err := svc.OrdersForUser(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeOrders(w, orders)
	}
}

// HandleEventTickets returns the handler for GET /events/{eventID}/tickets.
func HandleEventTickets(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.OrdersForEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeOrders(w, orders)
	}
}

// HandleUseTicket returns the handler for POST /tickets/{orderID}/use.
func HandleUseTicket(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.MarkUsed(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeOrder(w, http.StatusOK, order)
	}
}

// HandleCancelTicket returns the handler for POST /tickets/{orderID}/cancel.
func HandleCancelTicket(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.Cancel(r.Context(), chi.URLParam(r, "orderID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeOrder(w, http.StatusOK, order)
	}
}

type orderResponse struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		OrderID:    o.ID,
		UserID:     o.UserID,
		EventID:    o.EventID,
		Quantity:   o.Quantity,
		UnitPrice:  o.UnitPrice.String(),
		TotalPrice: o.TotalPrice.String(),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

func writeOrder(w http.ResponseWriter, status int, o domain.Order) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(toOrderResponse(o))
}

func writeOrders(w http.ResponseWriter, orders []domain.Order) {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(out)
}
