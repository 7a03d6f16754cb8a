// internal/app/features/events/create.go
package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/convenehq/convene/internal/app/policy/grouppolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createEventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	CoverPhoto  string    `json:"cover_photo"`
	IsPrivate   bool      `json:"is_private"`
	GroupID     string    `json:"group_id"`
}

// HandleCreateEvent creates an event with the caller as organizer. When a
// group id is given the event is linked to the group and every group
// member starts as participant.
//
// POST /api/events
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createEventRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "event name is required"))
		return
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "start and end dates are required"))
		return
	case req.EndDate.Before(req.StartDate):
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the event cannot end before it starts"))
		return
	}

	ev := models.Event{
		Name:        req.Name,
		Description: sanitize.Text(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		CoverPhoto:  req.CoverPhoto,
		IsPrivate:   req.IsPrivate,
		Organizers:  []primitive.ObjectID{uid},
	}

	if req.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "group not found"))
			return
		}
		g, err := h.Groups.GetByID(r.Context(), gid)
		if err != nil {
			webjson.Error(w, h.Log, err)
			return
		}
		if !grouppolicy.CanCreateEvent(g, uid) {
			webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you may not create events for this group"))
			return
		}
		ev.GroupID = &gid
		ev.Participants = groupParticipants(g, uid)
	}

	created, err := h.Events.Create(r.Context(), ev)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "event created", map[string]any{"event": created})
}

// groupParticipants seeds the participant list with every group member and
// administrator except the creator, who joins as organizer instead.
func groupParticipants(g models.Group, creator primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{creator: true}
	out := []primitive.ObjectID{}
	for _, id := range append(append([]primitive.ObjectID{}, g.Administrators...), g.Members...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ServeEventsList returns the events visible to the caller: public events
// plus any the caller organizes or participates in.
//
// GET /api/events
func (h *Handler) ServeEventsList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	events, err := h.Events.ListVisible(r.Context(), uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	webjson.Write(w, http.StatusOK, events)
}
