package discussionstore

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
	return &Store{c: db.Collection("discussions")}
}

// Create inserts a discussion owned by exactly one of a group or an event.
func (s *Store) Create(ctx context.Context, d models.Discussion) (models.Discussion, error) {
	if (d.GroupID == nil) == (d.EventID == nil) {
		return models.Discussion{}, apperr.New(apperr.Invalid, "a discussion belongs to exactly one group or event")
	}
	d.ID = primitive.NewObjectID()
	if d.Messages == nil {
		d.Messages = []primitive.ObjectID{}
	}
	d.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error) {
	var d models.Discussion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Discussion{}, apperr.New(apperr.NotFound, "discussion not found")
		}
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Discussion, error) {
	return s.list(ctx, bson.M{"group_id": groupID})
}

func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Discussion, error) {
	return s.list(ctx, bson.M{"event_id": eventID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Discussion, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var discussions []models.Discussion
	if err := cur.All(ctx, &discussions); err != nil {
		return nil, err
	}
	return discussions, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "discussion not found")
	}
	return nil
}

// PushMessage appends a message id to the discussion's ordered list.
func (s *Store) PushMessage(ctx context.Context, id, messageID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"messages": messageID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "discussion not found")
	}
	return nil
}

// PullMessage detaches a message id from the discussion's list.
func (s *Store) PullMessage(ctx context.Context, id, messageID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"messages": messageID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "discussion not found")
	}
	return nil
}
