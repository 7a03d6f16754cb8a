package discussionpolicy_test

import (
	"testing"

	"github.com/convenehq/convene/internal/app/policy/discussionpolicy"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	admin    = primitive.NewObjectID()
	member   = primitive.NewObjectID()
	stranger = primitive.NewObjectID()
)

func groupParent(typ string, allowPosts bool) discussionpolicy.Parent {
	return discussionpolicy.Parent{Group: &models.Group{
		Type:             typ,
		AllowMemberPosts: allowPosts,
		Administrators:   []primitive.ObjectID{admin},
		Members:          []primitive.ObjectID{member},
	}}
}

func eventParent(private bool) discussionpolicy.Parent {
	return discussionpolicy.Parent{Event: &models.Event{
		IsPrivate:    private,
		Organizers:   []primitive.ObjectID{admin},
		Participants: []primitive.ObjectID{member},
	}}
}

func TestCanAccess_Group(t *testing.T) {
	if !discussionpolicy.CanAccess(groupParent(models.GroupTypePublic, true), stranger) {
		t.Error("public group discussion must be readable by anyone")
	}
	if discussionpolicy.CanAccess(groupParent(models.GroupTypeSecret, true), stranger) {
		t.Error("secret group discussion leaked to stranger")
	}
	if !discussionpolicy.CanAccess(groupParent(models.GroupTypeSecret, true), member) {
		t.Error("member blocked from own group's discussion")
	}
}

func TestCanAccess_Event(t *testing.T) {
	if !discussionpolicy.CanAccess(eventParent(false), stranger) {
		t.Error("public event discussion must be readable by anyone")
	}
	if discussionpolicy.CanAccess(eventParent(true), stranger) {
		t.Error("private event discussion leaked to stranger")
	}
}

func TestCanAccess_NoParent(t *testing.T) {
	if discussionpolicy.CanAccess(discussionpolicy.Parent{}, member) {
		t.Error("orphan discussion must fail closed")
	}
}

func TestCanPost_MemberPostingGate(t *testing.T) {
	p := groupParent(models.GroupTypePublic, false)
	if discussionpolicy.CanPost(p, member) {
		t.Error("member posted with posting disabled")
	}
	if !discussionpolicy.CanPost(p, admin) {
		t.Error("admin must post regardless of the gate")
	}

	// Event discussions have no posting gate beyond access.
	if !discussionpolicy.CanPost(eventParent(false), stranger) {
		t.Error("public event discussion accepts posts from any viewer")
	}
	if discussionpolicy.CanPost(eventParent(true), stranger) {
		t.Error("stranger posted to private event discussion")
	}
}
