// internal/app/features/users/register.go
package users

import (
	"net/http"
	"strings"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"github.com/convenehq/convene/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleRegister creates an account and signs the caller in.
//
// POST /api/users/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "a valid email is required"))
		return
	case len(req.Password) < 8:
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "password must be at least 8 characters"))
		return
	case req.FirstName == "" || req.LastName == "":
		webjson.Error(w, h.Log, apperr.New(apperr.Invalid, "first and last name are required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	u, err := h.Users.Create(r.Context(), models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), u.Email, u.FirstName+" "+u.LastName)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	webjson.Created(w, "account created", map[string]any{"user": u, "token": token})
}
