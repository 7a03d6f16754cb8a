// internal/app/features/events/toggles.go
package events

import (
	"context"
	"net/http"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

// HandleToggleShoppingList switches the shopping list on or off;
// organizers only. Existing items survive a disable and come back when the
// feature is re-enabled.
//
// PUT /api/events/{id}/shopping-list
func (h *Handler) HandleToggleShoppingList(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Events.SetShoppingList)
}

// HandleToggleCarpooling switches carpooling on or off; organizers only.
//
// PUT /api/events/{id}/carpooling
func (h *Handler) HandleToggleCarpooling(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Events.SetCarpooling)
}

func (h *Handler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	set func(ctx context.Context, id primitive.ObjectID, enabled bool) (models.Event, error),
) {
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
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an organizer may change event features"))
		return
	}

	var req toggleRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	updated, err := set(r.Context(), ev.ID, req.Enabled)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "event updated", map[string]any{"event": updated})
}
