package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group visibility types.
const (
	GroupTypePublic  = "public"
	GroupTypePrivate = "private"
	GroupTypeSecret  = "secret"
)

// ValidGroupType reports whether t is one of the recognized group types.
func ValidGroupType(t string) bool {
	return t == GroupTypePublic || t == GroupTypePrivate || t == GroupTypeSecret
}

// Group is a community of users. Administrators is never empty, and a user
// is never in both administrators and members: promotion pulls from members
// in the same update that adds to administrators.
type Group struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon,omitempty" json:"icon,omitempty"`
	CoverPhoto  string             `bson:"cover_photo,omitempty" json:"cover_photo,omitempty"`
	Type        string             `bson:"type" json:"type"` // public | private | secret

	AllowMemberPosts  bool `bson:"allow_member_posts" json:"allow_member_posts"`
	AllowMemberEvents bool `bson:"allow_member_events" json:"allow_member_events"`

	Administrators []primitive.ObjectID `bson:"administrators" json:"administrators"`
	Members        []primitive.ObjectID `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
