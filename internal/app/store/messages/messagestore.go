package messagestore

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
	return &Store{c: db.Collection("messages")}
}

func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	if m.Replies == nil {
		m.Replies = []primitive.ObjectID{}
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Message, error) {
	var m models.Message
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Message{}, apperr.New(apperr.NotFound, "message not found")
		}
		return models.Message{}, err
	}
	return m, nil
}

// ListByDiscussion returns every message of the discussion oldest first.
func (s *Store) ListByDiscussion(ctx context.Context, discussionID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"discussion_id": discussionID}, opts)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Message, error) {
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Message
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Message{}, apperr.New(apperr.NotFound, "message not found")
		}
		return models.Message{}, err
	}
	return m, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "message not found")
	}
	return nil
}

// PushReply links a child message onto its parent.
func (s *Store) PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$push": bson.M{"replies": childID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.NotFound, "parent message not found")
	}
	return nil
}

// PullReply detaches a deleted child from its parent's replies. A missing
// parent is fine: the parent may itself have been deleted.
func (s *Store) PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$pull": bson.M{"replies": childID}})
	return err
}
