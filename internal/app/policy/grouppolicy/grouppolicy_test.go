package grouppolicy_test

import (
	"testing"

	"github.com/convenehq/convene/internal/app/policy/grouppolicy"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	admin    = primitive.NewObjectID()
	member   = primitive.NewObjectID()
	stranger = primitive.NewObjectID()
)

func group(typ string, allowMemberPosts bool) models.Group {
	return models.Group{
		Type:             typ,
		AllowMemberPosts: allowMemberPosts,
		Administrators:   []primitive.ObjectID{admin},
		Members:          []primitive.ObjectID{member},
	}
}

func TestCanView(t *testing.T) {
	cases := []struct {
		name string
		typ  string
		user primitive.ObjectID
		want bool
	}{
		{"public stranger", models.GroupTypePublic, stranger, true},
		{"private stranger", models.GroupTypePrivate, stranger, false},
		{"secret stranger", models.GroupTypeSecret, stranger, false},
		{"private member", models.GroupTypePrivate, member, true},
		{"secret admin", models.GroupTypeSecret, admin, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := grouppolicy.CanView(group(c.typ, true), c.user); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestCanPost(t *testing.T) {
	// Member posting disabled: only admins may post.
	g := group(models.GroupTypePublic, false)
	if grouppolicy.CanPost(g, member) {
		t.Error("member posted with member posts disabled")
	}
	if !grouppolicy.CanPost(g, admin) {
		t.Error("admin must always be able to post")
	}

	// Enabled: everyone with access may post.
	g = group(models.GroupTypePublic, true)
	if !grouppolicy.CanPost(g, member) {
		t.Error("member blocked with member posts enabled")
	}
}

func TestIsSoleAdmin(t *testing.T) {
	g := group(models.GroupTypePublic, true)
	if !grouppolicy.IsSoleAdmin(g, admin) {
		t.Error("single admin is sole admin")
	}
	if grouppolicy.IsSoleAdmin(g, member) {
		t.Error("member is not sole admin")
	}

	g.Administrators = append(g.Administrators, primitive.NewObjectID())
	if grouppolicy.IsSoleAdmin(g, admin) {
		t.Error("two admins: nobody is sole admin")
	}
}

func TestAdminIsMember(t *testing.T) {
	g := group(models.GroupTypeSecret, true)
	if !grouppolicy.IsMember(g, admin) {
		t.Error("admin counts as member")
	}
}
