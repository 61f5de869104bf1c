package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter wires every endpoint. Purchasing is the write path; everything
// else is read-only queries or admin CRUD over events.
func NewRouter(purchaseSvc Purchaser, ticketSvc TicketReader, adminSvc EventAdmin, logger *zap.Logger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(corsOrigins))

	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(MethodNotAllowedHandler())

	r.Get("/health", HealthHandler)

	r.Route("/tickets", func(r chi.Router) {
		r.Post("/purchase", HandlePurchase(purchaseSvc))
		r.Get("/my-tickets", HandleMyTickets(ticketSvc))
		r.Post("/{orderID}/use", HandleUseTicket(ticketSvc))
		r.Post("/{orderID}/cancel", HandleCancelTicket(ticketSvc))
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", HandleListEvents(adminSvc))
		r.Get("/{eventID}", HandleGetEvent(adminSvc))
		r.Get("/{eventID}/tickets", HandleEventTickets(ticketSvc))
	})

	r.Route("/admin/events", func(r chi.Router) {
		r.Post("/", HandleCreateEvent(adminSvc))
		r.Put("/{eventID}", HandleUpdateEvent(adminSvc))
		r.Delete("/{eventID}", HandleDeleteEvent(adminSvc))
	})

	return r
}
