package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album groups photos under an event.
type Album struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	EventID     primitive.ObjectID   `bson:"event_id" json:"event_id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Photos      []primitive.ObjectID `bson:"photos" json:"photos"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PhotoComment is embedded on the photo document.
type PhotoComment struct {
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Photo carries the event id redundantly so membership checks do not need
// to load the album first.
type Photo struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AlbumID  primitive.ObjectID `bson:"album_id" json:"album_id"`
	EventID  primitive.ObjectID `bson:"event_id" json:"event_id"`
	PostedBy primitive.ObjectID `bson:"posted_by" json:"posted_by"`
	URL      string             `bson:"url" json:"url"`
	Comments []PhotoComment     `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
