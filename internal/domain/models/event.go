package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is the central coordination entity. Organizers is never empty; an
// organizer counts as a member for every membership check. Participants and
// organizers are mutated only through guarded set operations on the store.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	StartDate   time.Time          `bson:"start_date" json:"start_date"`
	EndDate     time.Time          `bson:"end_date" json:"end_date"`
	Location    string             `bson:"location" json:"location"`
	CoverPhoto  string             `bson:"cover_photo,omitempty" json:"cover_photo,omitempty"`
	IsPrivate   bool               `bson:"is_private" json:"is_private"`

	Organizers   []primitive.ObjectID `bson:"organizers" json:"organizers"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`

	// GroupID links an event created from within a group; nil otherwise.
	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`

	ShoppingListEnabled bool `bson:"shopping_list_enabled" json:"shopping_list_enabled"`
	CarpoolingEnabled   bool `bson:"carpooling_enabled" json:"carpooling_enabled"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
