// internal/app/features/shoppinglist/routes.go
package shoppinglist

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleAddItem)
		pr.Get("/", h.ServeItemsList)
		pr.Put("/{id}", h.HandleUpdateItem)
		pr.Delete("/{id}", h.HandleDeleteItem)
	})

	return r
}
