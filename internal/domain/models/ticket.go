package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketType is a class of tickets for a public event. SoldQuantity only
// moves up through guarded increments and never exceeds QuantityLimit.
type TicketType struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       primitive.ObjectID `bson:"event_id" json:"event_id"`
	Name          string             `bson:"name" json:"name"`
	Amount        float64            `bson:"amount" json:"amount"`
	QuantityLimit int                `bson:"quantity_limit" json:"quantity_limit"`
	SoldQuantity  int                `bson:"sold_quantity" json:"sold_quantity"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Remaining returns how many tickets of this type are still available.
func (t TicketType) Remaining() int {
	return t.QuantityLimit - t.SoldQuantity
}

// Ticket records a purchase by a named buyer, who needs no account. BuyerCI
// is the folded (first, last, address) key backing the one-ticket-per-buyer
// uniqueness index on the event.
type Ticket struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TicketTypeID primitive.ObjectID `bson:"ticket_type_id" json:"ticket_type_id"`
	EventID      primitive.ObjectID `bson:"event_id" json:"event_id"`
	Serial       string             `bson:"serial" json:"serial"`

	BuyerFirstName string `bson:"buyer_first_name" json:"buyer_first_name"`
	BuyerLastName  string `bson:"buyer_last_name" json:"buyer_last_name"`
	BuyerAddress   string `bson:"buyer_address" json:"buyer_address"`
	BuyerCI        string `bson:"buyer_ci" json:"-"`

	PurchaseDate time.Time `bson:"purchase_date" json:"purchase_date"`
}
