// Package eventpolicy holds the authorization predicates for events. Every
// handler that touches an event or one of its child entities evaluates
// these against the already-loaded event instead of re-deriving the
// membership scan inline.
package eventpolicy

import (
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsOrganizer reports whether the user is in the event's organizer set.
func IsOrganizer(ev models.Event, userID primitive.ObjectID) bool {
	return contains(ev.Organizers, userID)
}

// IsParticipant reports whether the user is in the participant set only.
// Organizers are not implicitly participants here; use IsMember for the
// combined check.
func IsParticipant(ev models.Event, userID primitive.ObjectID) bool {
	return contains(ev.Participants, userID)
}

// IsMember reports whether the user is an organizer or a participant.
// Organizers always count as members.
func IsMember(ev models.Event, userID primitive.ObjectID) bool {
	return IsOrganizer(ev, userID) || IsParticipant(ev, userID)
}

// CanView reports whether the user may read the event and its child
// entities: public events are visible to everyone, private events only to
// members.
func CanView(ev models.Event, userID primitive.ObjectID) bool {
	return !ev.IsPrivate || IsMember(ev, userID)
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
