// internal/app/features/events/crud.go
package events

import (
	"net/http"
	"time"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/store/events"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadEvent resolves the {id} URL parameter; malformed ids are reported as
// not found, same as missing documents.
func (h *Handler) loadEvent(r *http.Request) (models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Event{}, apperr.New(apperr.NotFound, "event not found")
	}
	return h.Events.GetByID(r.Context(), id)
}

// ServeEvent returns one event.
//
// GET /api/events/{id}
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ev, err := h.loadEvent(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.CanView(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
		return
	}
	webjson.OK(w, "event", map[string]any{"event": ev})
}

type updateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	CoverPhoto  *string    `json:"cover_photo"`
	IsPrivate   *bool      `json:"is_private"`
}

// HandleUpdateEvent applies a partial update; organizers only.
//
// PUT /api/events/{id}
func (h *Handler) HandleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ev, err := h.loadEvent(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may edit the event"))
		return
	}

	var req updateEventRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.Name != nil && *req.Name == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "event name cannot be empty"))
		return
	}
	start, end := ev.StartDate, ev.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if end.Before(start) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the event cannot end before it starts"))
		return
	}
	if req.Description != nil {
		clean := sanitize.Text(*req.Description)
		req.Description = &clean
	}

	updated, err := h.Events.UpdateInfo(r.Context(), ev.ID, eventstore.InfoUpdate{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		CoverPhoto:  req.CoverPhoto,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "event updated", map[string]any{"event": updated})
}

// HandleDeleteEvent removes the event plus its shopping list and ride
// offers; organizers only. The cleanup is best-effort and sequential, so
// a failure after the event delete leaves orphans rather than a partial
// event.
//
// DELETE /api/events/{id}
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	ev, err := h.loadEvent(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may delete the event"))
		return
	}

	if err := h.Events.Delete(r.Context(), ev.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	for _, cleaner := range []EventCleaner{h.ShoppingList, h.Carpooling} {
		if err := cleaner.DeleteByEvent(r.Context(), ev.ID); err != nil {
			h.Log.Warn("event cleanup failed",
				zap.String("event_id", ev.ID.Hex()), zap.Error(err))
		}
	}
	webjson.OK(w, "event deleted", nil)
}
