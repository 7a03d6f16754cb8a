package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShoppingListItem is something a participant brings to an event. NameCI is
// the folded name backing the per-event uniqueness index.
type ShoppingListItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     primitive.ObjectID `bson:"event_id" json:"event_id"`
	BroughtBy   primitive.ObjectID `bson:"brought_by" json:"brought_by"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	ArrivalTime time.Time          `bson:"arrival_time" json:"arrival_time"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
