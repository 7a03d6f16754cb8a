package pollstore

import (
	"context"
	"errors"
	"fmt"
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
	return &Store{c: db.Collection("polls")}
}

func (s *Store) Create(ctx context.Context, p models.Poll) (models.Poll, error) {
	p.ID = primitive.NewObjectID()
	for i := range p.Questions {
		if p.Questions[i].Responses == nil {
			p.Questions[i].Responses = []models.PollResponse{}
		}
	}
	p.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Poll, error) {
	var p models.Poll
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Poll{}, apperr.New(apperr.NotFound, "poll not found")
		}
		return models.Poll{}, err
	}
	return p, nil
}

func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Poll, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	var polls []models.Poll
	if err := cur.All(ctx, &polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "poll not found")
	}
	return nil
}

// RecordBallot writes one answer per question in a single update. The
// filter excludes polls where the participant already answered the first
// question, so a double submission matches nothing and the ballot stays
// all-or-nothing even under concurrent submits.
func (s *Store) RecordBallot(ctx context.Context, id, participant primitive.ObjectID, answers []string) error {
	now := time.Now().UTC()
	push := bson.M{}
	for i, selected := range answers {
		push[fmt.Sprintf("questions.%d.responses", i)] = models.PollResponse{
			Participant:    participant,
			SelectedOption: selected,
			AnsweredAt:     now,
		}
	}
	filter := bson.M{
		"_id":                               id,
		"questions.0.responses.participant": bson.M{"$ne": participant},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$push": push})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.Invalid, "you have already answered this poll")
	}
	return nil
}
