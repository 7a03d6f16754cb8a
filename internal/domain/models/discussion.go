package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion belongs to exactly one of a group or an event; the ownership
// is fixed at creation. Messages holds the ordered message ids.
type Discussion struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`
	EventID *primitive.ObjectID `bson:"event_id,omitempty" json:"event_id,omitempty"`

	Messages []primitive.ObjectID `bson:"messages" json:"messages"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Message is one post in a discussion. Replies/ParentMessage form a tree by
// back-reference. Deleting a message detaches it from its parent's replies
// and the discussion's list; its own replies are kept with a dangling
// parent reference.
type Message struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	DiscussionID  primitive.ObjectID   `bson:"discussion_id" json:"discussion_id"`
	Author        primitive.ObjectID   `bson:"author" json:"author"`
	Content       string               `bson:"content" json:"content"`
	ParentMessage *primitive.ObjectID  `bson:"parent_message,omitempty" json:"parent_message,omitempty"`
	Replies       []primitive.ObjectID `bson:"replies" json:"replies"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
