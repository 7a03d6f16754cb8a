package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Carpooling is a ride offer attached to an event. The driver is never in
// passengers, and len(Passengers) never exceeds AvailableSeats; both are
// enforced in the store's guarded updates.
type Carpooling struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID primitive.ObjectID `bson:"event_id" json:"event_id"`
	Driver  primitive.ObjectID `bson:"driver" json:"driver"`

	DepartureLocation string    `bson:"departure_location" json:"departure_location"`
	DepartureTime     time.Time `bson:"departure_time" json:"departure_time"`
	Price             float64   `bson:"price" json:"price"`
	AvailableSeats    int       `bson:"available_seats" json:"available_seats"`
	// MaxTimeDeviation is the detour the driver accepts, in minutes.
	MaxTimeDeviation int `bson:"max_time_deviation" json:"max_time_deviation"`

	Passengers []primitive.ObjectID `bson:"passengers" json:"passengers"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SeatsLeft returns the number of free passenger seats.
func (c Carpooling) SeatsLeft() int {
	return c.AvailableSeats - len(c.Passengers)
}

// HasPassenger reports whether the user is already a passenger.
func (c Carpooling) HasPassenger(userID primitive.ObjectID) bool {
	for _, p := range c.Passengers {
		if p == userID {
			return true
		}
	}
	return false
}
