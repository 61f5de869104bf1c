package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/entradahq/entrada/internal/app"
	"github.com/entradahq/entrada/internal/payment"
)

// userIDHeader carries the authenticated user identity, resolved by the
// upstream auth layer.
const userIDHeader = "X-User-ID"

// Purchaser is the minimal interface needed to buy tickets.
type Purchaser interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
}

// HandlePurchase returns the handler for POST /tickets/purchase.
func HandlePurchase(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, codeUserIdentityRequired, "user identity required")
			return
		}

		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		// The order id doubles as the idempotency key. Callers that want safe
		// retries supply their own; otherwise one is generated per attempt.
		orderID := req.OrderID
		if orderID == "" {
			orderID = uuid.NewString()
		}

		res, err := svc.Purchase(r.Context(), app.PurchaseInput{
			OrderID:  orderID,
			UserID:   userID,
			EventID:  req.EventID,
			Quantity: req.Quantity,
			Card: payment.CardDetails{
				Number:     req.Card.Number,
				HolderName: req.Card.HolderName,
				Expiry:     req.Card.Expiry,
				CVV:        req.Card.CVV,
			},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := purchaseResponse{
			OrderID:    res.Order.ID,
			EventID:    res.Order.EventID,
			Quantity:   res.Order.Quantity,
			UnitPrice:  res.Order.UnitPrice.String(),
			TotalPrice: res.Order.TotalPrice.String(),
			Status:     string(res.Order.Status),
			Remaining:  res.Remaining,
			CreatedAt:  res.Order.CreatedAt,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type purchaseRequest struct {
	OrderID  string      `json:"order_id"`
	EventID  string      `json:"event_id"`
	Quantity int         `json:"quantity"`
	Card     cardDetails `json:"card"`
}

type cardDetails struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type purchaseResponse struct {
	OrderID    string    `json:"order_id"`
	EventID    string    `json:"event_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	TotalPrice string    `json:"total_price"`
	Status     string    `json:"status"`
	Remaining  int       `json:"remaining"`
	CreatedAt  time.Time `json:"created_at"`
}
