// internal/app/features/users/profile.go
package users

import (
	"net/http"
	"time"

	"github.com/convenehq/convene/internal/app/store/users"
	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/authz"
	"github.com/convenehq/convene/internal/app/system/sanitize"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ServeProfile returns the caller's own account.
//
// GET /api/users/me
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}
	u, err := h.Users.GetByID(r.Context(), uid)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "profile", map[string]any{"user": u})
}

// ServeUser returns another user's public profile.
//
// GET /api/users/{id}
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		webjson.Error(w, h.Log, apperr.New(apperr.NotFound, "user not found"))
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "user", map[string]any{"user": u})
}

type updateProfileRequest struct {
	FirstName      *string    `json:"first_name"`
	LastName       *string    `json:"last_name"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	Bio            *string    `json:"bio"`
	ProfilePicture *string    `json:"profile_picture"`
}

// HandleUpdateProfile applies a partial update to the caller's account.
//
// PUT /api/users/me
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserCtx(r)
	if !ok {
		webjson.Error(w, h.Log, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var req updateProfileRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	if req.FirstName != nil && *req.FirstName == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "first name cannot be empty"))
		return
	}
	if req.LastName != nil && *req.LastName == "" {
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "last name cannot be empty"))
		return
	}
	if req.Bio != nil {
		clean := sanitize.Text(*req.Bio)
		req.Bio = &clean
	}

	u, err := h.Users.UpdateProfile(r.Context(), uid, userstore.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}
	webjson.OK(w, "profile updated", map[string]any{"user": u})
}
