// internal/app/features/albums/routes.go
package albums

import (
	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreateAlbum)
		pr.Get("/", h.ServeAlbumsList)
		pr.Get("/{id}", h.ServeAlbum)
		pr.Delete("/{id}", h.HandleDeleteAlbum)

		pr.Post("/{id}/photos", h.HandleAddPhoto)
		pr.Delete("/{id}/photos/{photoID}", h.HandleDeletePhoto)
		pr.Post("/{id}/photos/{photoID}/comments", h.HandleCommentPhoto)
	})

	return r
}
