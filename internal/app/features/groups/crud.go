// internal/app/features/groups/crud.go
package groups

import (
	"net/http"
	"strings"

	"github.com/convenehq/convene/internal/app/policy/grouppolicy"
	"github.com/convenehq/convene/internal/app/store/groups"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadGroup resolves the {id} URL parameter; malformed ids read as not
// found.
func (h *Handler) loadGroup(r *http.Request) (models.Group, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.Group{}, apperr.New(apperr.NotFound, "group not found")
	}
	return h.Groups.GetByID(r.Context(), id)
}

type createGroupRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Icon              string `json:"icon"`
	CoverPhoto        string `json:"cover_photo"`
	Type              string `json:"type"`
	AllowMemberPosts  bool   `json:"allow_member_posts"`
	AllowMemberEvents bool   `json:"allow_member_events"`
}

// HandleCreateGroup creates a group with the caller as its first
// administrator.
//
// POST /api/groups
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req createGroupRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "group name is required"))
		return
	}
	if !models.ValidGroupType(req.Type) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "group type must be public, private or secret"))
		return
	}

	g, err := h.Groups.Create(r.Context(), models.Group{
		Name:              req.Name,
		Description:       sanitize.Text(req.Description),
		Icon:              req.Icon,
		CoverPhoto:        req.CoverPhoto,
		Type:              req.Type,
		AllowMemberPosts:  req.AllowMemberPosts,
		AllowMemberEvents: req.AllowMemberEvents,
		Administrators:    []primitive.ObjectID{uid},
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.Created(w, "group created", map[string]any{"group": g})
}

// ServeGroupsList returns the groups the caller may see. Secret groups
// never show up for non-members.
//
// GET /api/groups
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	groups, err := h.Groups.ListVisible(r.Context(), uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	webjson.Write(w, http.StatusOK, groups)
}

// ServeGroup returns one group.
//
// GET /api/groups/{id}
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
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
	if !grouppolicy.CanView(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you do not have access to this group"))
		return
	}
	webjson.OK(w, "group", map[string]any{"group": g})
}

type updateGroupRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	Icon              *string `json:"icon"`
	CoverPhoto        *string `json:"cover_photo"`
	Type              *string `json:"type"`
	AllowMemberPosts  *bool   `json:"allow_member_posts"`
	AllowMemberEvents *bool   `json:"allow_member_events"`
}

// HandleUpdateGroup applies a partial update; administrators only.
//
// PUT /api/groups/{id}
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
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
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an administrator may edit the group"))
		return
	}

	var req updateGroupRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "group name cannot be empty"))
		return
	}
	if req.Type != nil && !models.ValidGroupType(*req.Type) {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "group type must be public, private or secret"))
		return
	}
	if req.Description != nil {
		clean := sanitize.Text(*req.Description)
		req.Description = &clean
	}

	updated, err := h.Groups.UpdateInfo(r.Context(), g.ID, groupstore.InfoUpdate{
		Name:              req.Name,
		Description:       req.Description,
		Icon:              req.Icon,
		CoverPhoto:        req.CoverPhoto,
		Type:              req.Type,
		AllowMemberPosts:  req.AllowMemberPosts,
		AllowMemberEvents: req.AllowMemberEvents,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "group updated", map[string]any{"group": updated})
}

// HandleDeleteGroup removes the group; administrators only. Events created
// from the group keep their own membership and survive.
//
// DELETE /api/groups/{id}
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
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
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "only an administrator may delete the group"))
		return
	}

	if err := h.Groups.Delete(r.Context(), g.ID); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "group deleted", nil)
}

// ServeGroupEvents lists the events created from the group.
//
// GET /api/groups/{id}/events
func (h *Handler) ServeGroupEvents(w http.ResponseWriter, r *http.Request) {
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
	if !grouppolicy.CanView(g, uid) {
		webjson.Error(w, h.Log, apperr.New(apperr.Forbidden, "you do not have access to this group"))
		return
	}

	events, err := h.Events.ListByGroup(r.Context(), g.ID)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	webjson.Write(w, http.StatusOK, events)
}
