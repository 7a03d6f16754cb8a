// internal/app/features/polls/routes.go
package polls

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreatePoll)
		pr.Get("/", h.ServePollsList)
		pr.Get("/{id}", h.ServePoll)
		pr.Delete("/{id}", h.HandleDeletePoll)

		pr.Post("/{id}/answers", h.HandleAnswerPoll)
	})

	return r
}
