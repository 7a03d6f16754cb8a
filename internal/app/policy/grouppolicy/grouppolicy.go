// Package grouppolicy holds the authorization predicates for groups.
package grouppolicy

import (
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsAdmin reports whether the user administers the group.
func IsAdmin(g models.Group, userID primitive.ObjectID) bool {
	return contains(g.Administrators, userID)
}

// IsMember reports whether the user belongs to the group, as plain member
// or administrator.
func IsMember(g models.Group, userID primitive.ObjectID) bool {
	return IsAdmin(g, userID) || contains(g.Members, userID)
}

// CanView reports whether the user may read the group. Public groups are
// visible to everyone; private and secret groups only to their members.
func CanView(g models.Group, userID primitive.ObjectID) bool {
	return g.Type == models.GroupTypePublic || IsMember(g, userID)
}

// CanPost reports whether the user may post in the group's discussions.
// Administrators always can; members only while member posting is allowed.
func CanPost(g models.Group, userID primitive.ObjectID) bool {
	if IsAdmin(g, userID) {
		return true
	}
	return g.AllowMemberPosts
}

// CanCreateEvent reports whether the user may create an event from the
// group. Administrators always can; members only while member events are
// allowed.
func CanCreateEvent(g models.Group, userID primitive.ObjectID) bool {
	if IsAdmin(g, userID) {
		return true
	}
	return g.AllowMemberEvents && IsMember(g, userID)
}

// IsSoleAdmin reports whether the user is the only administrator left, in
// which case leaving must be rejected to keep administrators non-empty.
func IsSoleAdmin(g models.Group, userID primitive.ObjectID) bool {
	return len(g.Administrators) == 1 && g.Administrators[0] == userID
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
