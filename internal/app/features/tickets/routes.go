// internal/app/features/tickets/routes.go
package tickets

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Tickets are sold to the public: browsing types and buying need no
	// account.
	r.Get("/types", h.ServeTypesList)
	r.Post("/purchase", h.HandlePurchase)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/types", h.HandleCreateType)
		pr.Put("/types/{id}", h.HandleUpdateType)
		pr.Delete("/types/{id}", h.HandleDeleteType)

		pr.Get("/", h.ServeTicketsList)
	})

	return r
}
