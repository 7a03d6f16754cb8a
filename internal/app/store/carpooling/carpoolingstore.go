package carpoolingstore

import (
	"context"
	"errors"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("carpoolings")}
}

func (s *Store) Create(ctx context.Context, cp models.Carpooling) (models.Carpooling, error) {
	cp.ID = primitive.NewObjectID()
	if cp.Passengers == nil {
		cp.Passengers = []primitive.ObjectID{}
	}
	cp.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, cp); err != nil {
		return models.Carpooling{}, err
	}
	return cp, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Carpooling, error) {
	var cp models.Carpooling
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Carpooling{}, apperr.New(apperr.NotFound, "carpooling not found")
		}
		return models.Carpooling{}, err
	}
	return cp, nil
}

func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Carpooling, error) {
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, err
	}
	var offers []models.Carpooling
	if err := cur.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// OfferUpdate carries the mutable ride fields; nil pointers are untouched.
type OfferUpdate struct {
	DepartureLocation *string
	DepartureTime     *time.Time
	Price             *float64
	AvailableSeats    *int
	MaxTimeDeviation  *int
}

// UpdateOffer edits a ride; lowering the seat count below the current
// passenger load matches nothing and is rejected.
func (s *Store) UpdateOffer(ctx context.Context, id primitive.ObjectID, upd OfferUpdate) (models.Carpooling, error) {
	set := bson.M{}
	if upd.DepartureLocation != nil {
		set["departure_location"] = *upd.DepartureLocation
	}
	if upd.DepartureTime != nil {
		set["departure_time"] = *upd.DepartureTime
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.MaxTimeDeviation != nil {
		set["max_time_deviation"] = *upd.MaxTimeDeviation
	}
	filter := bson.M{"_id": id}
	if upd.AvailableSeats != nil {
		set["available_seats"] = *upd.AvailableSeats
		filter["$expr"] = bson.M{"$lte": bson.A{bson.M{"$size": "$passengers"}, *upd.AvailableSeats}}
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cp models.Carpooling
	if err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&cp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, gerr := s.GetByID(ctx, id); gerr != nil {
				return models.Carpooling{}, gerr
			}
			return models.Carpooling{}, apperr.New(apperr.Invalid, "available seats cannot drop below current passengers")
		}
		return models.Carpooling{}, err
	}
	return cp, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "carpooling not found")
	}
	return nil
}

// DeleteByEvent removes every ride offer of an event.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	return err
}

// Join adds a passenger in one guarded update: the user must not be the
// driver or an existing passenger, and a seat must be free. Concurrent
// joins for the last seat cannot both match.
func (s *Store) Join(ctx context.Context, id, userID primitive.ObjectID) (models.Carpooling, error) {
	filter := bson.M{
		"_id":        id,
		"driver":     bson.M{"$ne": userID},
		"passengers": bson.M{"$ne": userID},
		"$expr":      bson.M{"$lt": bson.A{bson.M{"$size": "$passengers"}, "$available_seats"}},
	}
	update := bson.M{"$addToSet": bson.M{"passengers": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cp models.Carpooling
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Carpooling{}, apperr.New(apperr.Invalid, "no seat available on this ride")
		}
		return models.Carpooling{}, err
	}
	return cp, nil
}

// Leave removes a passenger from the ride.
func (s *Store) Leave(ctx context.Context, id, userID primitive.ObjectID) (models.Carpooling, error) {
	filter := bson.M{"_id": id, "passengers": userID}
	update := bson.M{"$pull": bson.M{"passengers": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cp models.Carpooling
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Carpooling{}, apperr.New(apperr.Invalid, "you are not a passenger of this ride")
		}
		return models.Carpooling{}, err
	}
	return cp, nil
}
