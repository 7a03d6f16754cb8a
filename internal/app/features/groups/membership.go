// internal/app/features/groups/membership.go
package groups

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/policy/grouppolicy"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleJoinGroup adds the caller to the members.
//
// POST /api/groups/{id}/join
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	g, err := h.loadGroup(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if grouppolicy.IsMember(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you are already a member of this group"))
		return
	}

	updated, err := h.Groups.Join(r.Context(), g.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "joined group", map[string]any{"group": updated})
}

// HandleLeaveGroup removes the caller from the group. The last remaining
// administrator cannot leave: the group would be orphaned.
//
// POST /api/groups/{id}/leave
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	g, err := h.loadGroup(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !grouppolicy.IsMember(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "you are not a member of this group"))
		return
	}
	if grouppolicy.IsSoleAdmin(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a group must keep at least one administrator"))
		return
	}

	leave := h.Groups.LeaveMember
	if grouppolicy.IsAdmin(g, uid) {
		leave = h.Groups.LeaveAdministrator
	}
	updated, err := leave(r.Context(), g.ID, uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "left group", map[string]any{"group": updated})
}

type addAdministratorRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddAdministrator promotes an existing member to administrator;
// administrators only. The promotion pulls the user from the member list
// in the same update.
//
// POST /api/groups/{id}/administrators
func (h *Handler) HandleAddAdministrator(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	g, err := h.loadGroup(r)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if !grouppolicy.IsAdmin(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an administrator may promote members"))
		return
	}

	var req addAdministratorRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	target, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a valid user id is required"))
		return
	}
	if !grouppolicy.IsMember(g, target) || grouppolicy.IsAdmin(g, target) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "the user is not a member of this group"))
		return
	}

	updated, err := h.Groups.PromoteAdministrator(r.Context(), g.ID, target)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "administrator added", map[string]any{"group": updated})
}
