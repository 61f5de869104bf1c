package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/entradahq/entrada/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeInvalidQuantity      = "invalid_quantity"
	codeOrderIDRequired      = "order_id_required"
	codeInvalidID            = "invalid_id"
	codeEventNotFound        = "event_not_found"
	codeOrderNotFound        = "order_not_found"
	codeInsufficientTickets  = "insufficient_tickets"
	codeDuplicateOrder       = "duplicate_order"
	codePaymentRequired      = "payment_required"
	codePaymentRejected      = "payment_rejected"
	codeInvalidTransition    = "invalid_status_transition"
	codeEventTitleRequired   = "event_title_required"
	codeInvalidPrice         = "invalid_price"
	codeInvalidCapacity      = "invalid_capacity"
	codeCapacityBelowSold    = "capacity_below_sold"
	codeUserIdentityRequired = "user_identity_required"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps domain errors onto HTTP statuses. Conflict-class
// errors (sold out, replayed order id) tell the caller a retry will not help;
// 500 means the transaction rolled back and a retry with the same order id is
// safe.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrOrderIDRequired):
		writeError(w, http.StatusBadRequest, codeOrderIDRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrPaymentRequired):
		writeError(w, http.StatusBadRequest, codePaymentRequired, err.Error())
	case errors.Is(err, domain.ErrEventTitleRequired):
		writeError(w, http.StatusBadRequest, codeEventTitleRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrPaymentRejected):
		writeError(w, http.StatusPaymentRequired, codePaymentRejected, err.Error())
	case errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientTickets):
		writeError(w, http.StatusConflict, codeInsufficientTickets, err.Error())
	case errors.Is(err, domain.ErrDuplicateOrder):
		writeError(w, http.StatusConflict, codeDuplicateOrder, err.Error())
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, domain.ErrCapacityBelowSold):
		writeError(w, http.StatusConflict, codeCapacityBelowSold, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
