// Package discussionpolicy composes the event and group predicates for
// discussions, which are scoped to exactly one parent.
package discussionpolicy

import (
	"github.com/convenehq/convene/internal/app/policy/eventpolicy"
	"github.com/convenehq/convene/internal/app/policy/grouppolicy"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Parent carries whichever parent the discussion hangs off. Exactly one of
// Group/Event is set, mirroring the discussion's ownership invariant.
type Parent struct {
	Group *models.Group
	Event *models.Event
}

// CanAccess reports whether the user may read the discussion: group-scoped
// discussions follow group visibility, event-scoped ones event visibility.
func CanAccess(p Parent, userID primitive.ObjectID) bool {
	switch {
	case p.Group != nil:
		return grouppolicy.CanView(*p.Group, userID)
	case p.Event != nil:
		return eventpolicy.CanView(*p.Event, userID)
	default:
		return false
	}
}

// CanPost reports whether the user may create a message in the discussion.
// Group discussions add the member-posting gate on top of access; event
// discussions require only access.
func CanPost(p Parent, userID primitive.ObjectID) bool {
	if !CanAccess(p, userID) {
		return false
	}
	if p.Group != nil {
		return grouppolicy.CanPost(*p.Group, userID)
	}
	return true
}
