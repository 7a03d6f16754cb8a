package albumstore

import (
	"context"
	"errors"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("albums")}
}

func (s *Store) Create(ctx context.Context, a models.Album) (models.Album, error) {
	a.ID = primitive.NewObjectID()
	if a.Photos == nil {
		a.Photos = []primitive.ObjectID{}
	}
	a.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Album{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Album, error) {
	var a models.Album
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Album{}, apperr.New(apperr.NotFound, "album not found")
		}
		return models.Album{}, err
	}
	return a, nil
}

func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Album, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	var albums []models.Album
	if err := cur.All(ctx, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "album not found")
	}
	return nil
}

func (s *Store) PushPhoto(ctx context.Context, id, photoID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"photos": photoID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "album not found")
	}
	return nil
}

// PullPhoto detaches a deleted photo. A missing album is tolerated because
// album deletion may race photo deletion.
func (s *Store) PullPhoto(ctx context.Context, id, photoID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"photos": photoID}})
	return err
}
