// internal/app/features/events/membership.go
package events

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
)

// HandleJoinEvent adds the caller to the participants. Joining is open to
// any account, including for private events: becoming a participant is how
// a private event becomes readable. The store's guarded update makes a
// repeat join fail even when two requests race.
//
// POST /api/events/{id}/join
func (h *Handler) HandleJoinEvent(w http.ResponseWriter, r *http.Request) {
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
	if eventpolicy.IsParticipant(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you already participate in this event"))
		return
	}

	updated, err := h.Events.Join(r.Context(), ev.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "joined event", map[string]any{"event": updated})
}

// HandleLeaveEvent removes the caller from the participants. Organizers
// cannot leave; they remain responsible for the event.
//
// POST /api/events/{id}/leave
func (h *Handler) HandleLeaveEvent(w http.ResponseWriter, r *http.Request) {
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
	if eventpolicy.IsOrganizer(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "an organizer cannot leave the event"))
		return
	}
	if !eventpolicy.IsParticipant(ev, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you are not a participant of this event"))
		return
	}

	updated, err := h.Events.Leave(r.Context(), ev.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "left event", map[string]any{"event": updated})
}
