// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreateDiscussion)
		pr.Get("/", h.ServeDiscussionsList)
		pr.Get("/{id}", h.ServeDiscussion)

		pr.Post("/{id}/messages", h.HandlePostMessage)
		pr.Put("/{id}/messages/{messageID}", h.HandleUpdateMessage)
		pr.Delete("/{id}/messages/{messageID}", h.HandleDeleteMessage)
	})

	return r
}
