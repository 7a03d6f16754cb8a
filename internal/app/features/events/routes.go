// internal/app/features/events/routes.go
package events

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreateEvent)
		pr.Get("/", h.ServeEventsList)
		pr.Get("/{id}", h.ServeEvent)
		pr.Put("/{id}", h.HandleUpdateEvent)
		pr.Delete("/{id}", h.HandleDeleteEvent)

		pr.Post("/{id}/join", h.HandleJoinEvent)
		pr.Post("/{id}/leave", h.HandleLeaveEvent)

		pr.Put("/{id}/shopping-list", h.HandleToggleShoppingList)
		pr.Put("/{id}/carpooling", h.HandleToggleCarpooling)
	})

	return r
}
