// internal/app/features/users/routes.go
package users

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Account creation and login are the only unauthenticated endpoints.
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/me", h.ServeProfile)
		pr.Put("/me", h.HandleUpdateProfile)
		pr.Get("/{id}", h.ServeUser)
	})

	return r
}
