package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/convenehq/convene/internal/app/system/auth"
	"github.com/convenehq/convene/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.Identity{ID: id.Hex()})

	got, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok for valid identity")
	}
	if got != id {
		t.Errorf("id: got %s, want %s", got.Hex(), id.Hex())
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := authz.UserCtx(req); ok {
		t.Error("expected not ok without identity")
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.Identity{ID: "not-hex"})

	if _, ok := authz.UserCtx(req); ok {
		t.Error("malformed id must fail closed")
	}
}
