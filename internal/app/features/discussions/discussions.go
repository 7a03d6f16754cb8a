// internal/app/features/discussions/discussions.go
package discussions

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/policy/discussionpolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadDiscussion resolves the {id} URL parameter; malformed ids read as
// not found.
func (h *Handler) loadDiscussion(r *http.Request) (models.Discussion, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Discussion{}, apperr.New(apperr.NotFound, "discussion not found")
	}
	return h.Discussions.GetByID(r.Context(), id)
}

// resolveParent loads whichever parent the discussion hangs off. A
// discussion whose parent is gone reads as not found.
func (h *Handler) resolveParent(r *http.Request, d models.Discussion) (discussionpolicy.Parent, error) {
	switch {
	case d.GroupID != nil:
		g, err := h.Groups.GetByID(r.Context(), *d.GroupID)
		if err != nil {
			return discussionpolicy.Parent{}, err
		}
		return discussionpolicy.Parent{Group: &g}, nil
	case d.EventID != nil:
		ev, err := h.Events.GetByID(r.Context(), *d.EventID)
		if err != nil {
			return discussionpolicy.Parent{}, err
		}
		return discussionpolicy.Parent{Event: &ev}, nil
	default:
		return discussionpolicy.Parent{}, apperr.New(apperr.NotFound, "discussion not found")
	}
}

type createDiscussionRequest struct {
	GroupID string `json:"group_id"`
	EventID string `json:"event_id"`
}

// HandleCreateDiscussion opens a discussion under exactly one group or
// event the caller may post in.
//
// POST /api/discussions
func (h *Handler) HandleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createDiscussionRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if (req.GroupID == "") == (req.EventID == "") {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a discussion belongs to exactly one group or event"))
		return
	}

	d := models.Discussion{}
	if req.GroupID != "" {
		gid, err := primitive.ObjectIDFromHex(req.GroupID)
		if err != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "group not found"))
			return
		}
		d.GroupID = &gid
	} else {
		eid, err := primitive.ObjectIDFromHex(req.EventID)
		if err != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
			return
		}
		d.EventID = &eid
	}

	parent, err := h.resolveParent(r, d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !discussionpolicy.CanPost(parent, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you may not open discussions here"))
		return
	}

	created, err := h.Discussions.Create(r.Context(), d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "discussion created", map[string]any{"discussion": created})
}

// ServeDiscussionsList lists the discussions of one group or event, named
// by query parameter.
//
// GET /api/discussions?group_id=… | ?event_id=…
func (h *Handler) ServeDiscussionsList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	groupHex, eventHex := r.URL.Query().Get("group_id"), r.URL.Query().Get("event_id")
	if (groupHex == "") == (eventHex == "") {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "pass exactly one of group_id or event_id"))
		return
	}

	var (
		discussions []models.Discussion
		err         error
	)
	if groupHex != "" {
		gid, perr := primitive.ObjectIDFromHex(groupHex)
		if perr != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "group not found"))
			return
		}
		g, gerr := h.Groups.GetByID(r.Context(), gid)
		if gerr != nil {
			webjson.Error(w, h.Log, gerr)
			return
		}
		if !discussionpolicy.CanAccess(discussionpolicy.Parent{Group: &g}, uid) {
			webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you do not have access to this group"))
			return
		}
		discussions, err = h.Discussions.ListByGroup(r.Context(), gid)
	} else {
		eid, perr := primitive.ObjectIDFromHex(eventHex)
		if perr != nil {
			webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "event not found"))
			return
		}
		ev, eerr := h.Events.GetByID(r.Context(), eid)
		if eerr != nil {
			webjson.Error(w, h.Log, eerr)
			return
		}
		if !discussionpolicy.CanAccess(discussionpolicy.Parent{Event: &ev}, uid) {
			webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "this event is private"))
			return
		}
		discussions, err = h.Discussions.ListByEvent(r.Context(), eid)
	}
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if discussions == nil {
		discussions = []models.Discussion{}
	}
	webjson.Write(w, http.StatusOK, discussions)
}

// ServeDiscussion returns the discussion with its messages oldest first.
//
// GET /api/discussions/{id}
func (h *Handler) ServeDiscussion(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	d, err := h.loadDiscussion(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	parent, err := h.resolveParent(r, d)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !discussionpolicy.CanAccess(parent, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you do not have access to this discussion"))
		return
	}

	messages, err := h.Messages.ListByDiscussion(r.Context(), d.ID)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	webjson.OK(w, "discussion", map[string]any{"discussion": d, "messages": messages})
}
