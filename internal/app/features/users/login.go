// internal/app/features/users/login.go
package users

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/app/system/webjson"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies the credentials and returns a fresh bearer token.
// Unknown email and wrong password get the same answer so the endpoint
// does not leak which emails have accounts.
//
// POST /api/users/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := webjson.Read(w, r, &req); err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	badCreds := apperr.New(apperr.Unauthenticated, "invalid email or password")

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			webjson.Error(w, h.Log, badCreds)
			return
		}
		webjson.Error(w, h.Log, err)
		return
	}

	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		webjson.Error(w, h.Log, badCreds)
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), u.Email, u.FirstName+" "+u.LastName)
	if err != nil {
		webjson.Error(w, h.Log, err)
		return
	}

	webjson.OK(w, "signed in", map[string]any{"user": u, "token": token})
}
