package eventstore

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
	return &Store{c: db.Collection("events")}
}

func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	now := time.Now().UTC()
	ev.ID = primitive.NewObjectID()
	if ev.Participants == nil {
		ev.Participants = []primitive.ObjectID{}
	}
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, err
	}
	return ev, nil
}

// ListVisible returns events the user may see: public ones plus any where
// the user is organizer or participant, ordered by start date.
func (s *Store) ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"is_private": false},
		bson.M{"participants": userID},
		bson.M{"organizers": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListByGroup returns the events created from a group, ordered by start
// date.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// InfoUpdate carries the mutable event fields; nil pointers are untouched.
type InfoUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	CoverPhoto  *string
	IsPrivate   *bool
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) (models.Event, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.StartDate != nil {
		set["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["end_date"] = *upd.EndDate
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.CoverPhoto != nil {
		set["cover_photo"] = *upd.CoverPhoto
	}
	if upd.IsPrivate != nil {
		set["is_private"] = *upd.IsPrivate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, err
	}
	return ev, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "event not found")
	}
	return nil
}

// Join adds the user to participants in one guarded update: the filter
// excludes events that already list the user, so concurrent joins by
// different users both land and a double join is rejected without a
// read-modify-write cycle.
func (s *Store) Join(ctx context.Context, id, userID primitive.ObjectID) (models.Event, error) {
	filter := bson.M{
		"_id":          id,
		"participants": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.Invalid, "you already participate in this event")
		}
		return models.Event{}, err
	}
	return ev, nil
}

// Leave pulls the user from participants. The filter requires the user to
// be a participant and not an organizer; organizers cannot leave.
func (s *Store) Leave(ctx context.Context, id, userID primitive.ObjectID) (models.Event, error) {
	filter := bson.M{
		"_id":          id,
		"participants": userID,
		"organizers":   bson.M{"$ne": userID},
	}
	update := bson.M{
		"$pull": bson.M{"participants": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.Invalid, "you are not a participant of this event")
		}
		return models.Event{}, err
	}
	return ev, nil
}

// SetShoppingList flips the shopping-list toggle to the given state.
func (s *Store) SetShoppingList(ctx context.Context, id primitive.ObjectID, enabled bool) (models.Event, error) {
	return s.setToggle(ctx, id, "shopping_list_enabled", enabled)
}

// SetCarpooling flips the carpooling toggle to the given state.
func (s *Store) SetCarpooling(ctx context.Context, id primitive.ObjectID, enabled bool) (models.Event, error) {
	return s.setToggle(ctx, id, "carpooling_enabled", enabled)
}

func (s *Store) setToggle(ctx context.Context, id primitive.ObjectID, field string, enabled bool) (models.Event, error) {
	update := bson.M{"$set": bson.M{field: enabled, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ev models.Event
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.New(apperr.NotFound, "event not found")
		}
		return models.Event{}, err
	}
	return ev, nil
}
