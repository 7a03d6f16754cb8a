// internal/app/features/groups/routes.go
package groups

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreateGroup)
		pr.Get("/", h.ServeGroupsList)
		pr.Get("/{id}", h.ServeGroup)
		pr.Put("/{id}", h.HandleUpdateGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		pr.Post("/{id}/join", h.HandleJoinGroup)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
		pr.Post("/{id}/administrators", h.HandleAddAdministrator)

		pr.Get("/{id}/events", h.ServeGroupEvents)
	})

	return r
}
