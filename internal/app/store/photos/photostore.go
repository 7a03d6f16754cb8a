package photostore

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
	return &Store{c: db.Collection("photos")}
}

func (s *Store) Create(ctx context.Context, p models.Photo) (models.Photo, error) {
	p.ID = primitive.NewObjectID()
	if p.Comments == nil {
		p.Comments = []models.PhotoComment{}
	}
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Photo{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Photo, error) {
	var p models.Photo
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Photo{}, apperr.New(apperr.NotFound, "photo not found")
		}
		return models.Photo{}, err
	}
	return p, nil
}

func (s *Store) ListByAlbum(ctx context.Context, albumID primitive.ObjectID) ([]models.Photo, error) {
	cur, err := s.c.Find(ctx, bson.M{"album_id": albumID})
	if err != nil {
		return nil, err
	}
	var photos []models.Photo
	if err := cur.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "photo not found")
	}
	return nil
}

// DeleteByAlbum removes every photo of an album when the album goes.
func (s *Store) DeleteByAlbum(ctx context.Context, albumID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"album_id": albumID})
	return err
}

// AddComment appends a comment to the photo document.
func (s *Store) AddComment(ctx context.Context, id primitive.ObjectID, c models.PhotoComment) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "photo not found")
	}
	return nil
}
