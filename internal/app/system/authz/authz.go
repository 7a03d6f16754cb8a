// Package authz bridges the request identity to the ObjectID form the
// policy predicates work with.
package authz

import (
	"net/http"

	"github.com/convenehq/convene/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's user ObjectID and a found flag. If no
// identity is present or the id is malformed it returns NilObjectID, false;
// ok=true always means a valid, authenticated user id. Malformed ids fail
// closed.
func UserCtx(r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
