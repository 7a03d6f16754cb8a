// internal/app/features/carpooling/routes.go
package carpooling

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleOfferRide)
		pr.Get("/", h.ServeRidesList)
		pr.Get("/{id}", h.ServeRide)
		pr.Put("/{id}", h.HandleUpdateRide)
		pr.Delete("/{id}", h.HandleDeleteRide)
		pr.Post("/{id}/join", h.HandleJoinRide)
		pr.Post("/{id}/leave", h.HandleLeaveRide)
	})

	return r
}
