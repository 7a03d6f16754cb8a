// internal/app/features/albums/albums.go
package albums

import (
	"net/http"
	"strings"

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

// loadAlbum resolves the {id} URL parameter together with its event, which
// carries the membership lists the checks need.
func (h *Handler) loadAlbum(r *http.Request) (models.Album, models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Album{}, models.Event{}, apperr.New(apperr.NotFound, "album not found")
	}
	a, err := h.Albums.GetByID(r.Context(), id)
	if err != nil {
		return models.Album{}, models.Event{}, err
	}
	ev, err := h.Events.GetByID(r.Context(), a.EventID)
	if err != nil {
		return models.Album{}, models.Event{}, err
	}
	return a, ev, nil
}

type createAlbumRequest struct {
	EventID     string `json:"event_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateAlbum opens an album under an event the caller belongs to.
//
// POST /api/albums
func (h *Handler) HandleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createAlbumRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	eid, err := primitive.ObjectIDFromHex(req.EventID)
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	ev, err := h.Events.GetByID(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsMember(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only event members may create albums"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "album name is required"))
		return
	}

	a, err := h.Albums.Create(r.Context(), models.Album{
		EventID:     eid,
		Name:        req.Name,
		Description: sanitize.Text(req.Description),
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "album created", map[string]any{"album": a})
}

// ServeAlbumsList lists the albums of one event.
//
// GET /api/albums?event_id=…
func (h *Handler) ServeAlbumsList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	eid, err := primitive.ObjectIDFromHex(r.URL.Query().Get("event_id"))
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
		return
	}
	ev, err := h.Events.GetByID(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}

	albums, err := h.Albums.ListByEvent(r.Context(), eid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if albums == nil {
		albums = []models.Album{}
	}
	webjson.Write(w, http.StatusOK, albums)
}

// ServeAlbum returns one album with its photos.
//
// GET /api/albums/{id}
func (h *Handler) ServeAlbum(w http.ResponseWriter, r *http.Request) {
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
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}

	photos, err := h.Photos.ListByAlbum(r.Context(), a.ID)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	webjson.OK(w, "album", map[string]any{"album": a, "photos": photos})
}

// HandleDeleteAlbum removes an album and every photo in it; organizers
// only.
//
// DELETE /api/albums/{id}
func (h *Handler) HandleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
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
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may delete albums"))
		return
	}

	if err := h.Albums.Delete(r.Context(), a.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if err := h.Photos.DeleteByAlbum(r.Context(), a.ID); err != nil {
		h.Log.Warn("album photo cleanup failed",
			zap.String("album_id", a.ID.Hex()), zap.Error(err))
	}
	webjson.OK(w, "album deleted", nil)
}
