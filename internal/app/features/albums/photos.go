// internal/app/features/albums/photos.go
package albums

import (
	"net/http"
	"strings"
	"time"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type addPhotoRequest struct {
	URL string `json:"url"`
}

// HandleAddPhoto appends a photo to the album; event members only.
//
// POST /api/albums/{id}/photos
func (h *Handler) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	a, ev, err := h.loadAlbum(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsMember(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may add photos"))
		return
	}

	var req addPhotoRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "photo url is required"))
		return
	}

	p, err := h.Photos.Create(r.Context(), models.Photo{
		AlbumID:  a.ID,
		EventID:  ev.ID,
		PostedBy: uid,
		URL:      req.URL,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if err := h.Albums.PushPhoto(r.Context(), a.ID, p.ID); err != nil {
		h.Log.Warn("photo not linked to album",
			zap.String("photo_id", p.ID.Hex()), zap.Error(err))
	}
	webjson.Created(w, "photo added", map[string]any{"photo": p})
}

// loadPhoto resolves the {photoID} URL parameter against the album: a
// photo reached through the wrong album reads as not found.
func (h *Handler) loadPhoto(r *http.Request, a models.Album) (models.Photo, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "photoID"))
	if err != nil {
		return models.Photo{}, apperr.New(apperr.NotFound, "photo not found")
	}
	p, err := h.Photos.GetByID(r.Context(), id)
	if err != nil {
		return models.Photo{}, err
	}
	if p.AlbumID != a.ID {
		return models.Photo{}, apperr.New(apperr.NotFound, "photo not found")
	}
	return p, nil
}

type commentPhotoRequest struct {
	Content string `json:"content"`
}

// HandleCommentPhoto appends a comment to the photo; event members only.
//
// POST /api/albums/{id}/photos/{photoID}/comments
func (h *Handler) HandleCommentPhoto(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	a, ev, err := h.loadAlbum(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	p, err := h.loadPhoto(r, a)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsMember(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may comment"))
		return
	}

	var req commentPhotoRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "comment content is required"))
		return
	}

	comment := models.PhotoComment{
		Author:    uid,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Photos.AddComment(r.Context(), p.ID, comment); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "comment added", map[string]any{"comment": comment})
}

// HandleDeletePhoto removes a photo; the poster or an event organizer.
//
// DELETE /api/albums/{id}/photos/{photoID}
func (h *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	a, ev, err := h.loadAlbum(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	p, err := h.loadPhoto(r, a)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if p.PostedBy != uid && !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only the poster or an organizer may delete a photo"))
		return
	}

	if err := h.Photos.Delete(r.Context(), p.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if err := h.Albums.PullPhoto(r.Context(), a.ID, p.ID); err != nil {
		h.Log.Warn("photo not unlinked from album",
			zap.String("photo_id", p.ID.Hex()), zap.Error(err))
	}
	webjson.OK(w, "photo deleted", nil)
}
