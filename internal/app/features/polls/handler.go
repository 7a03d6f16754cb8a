// internal/app/features/polls/handler.go
package polls

import (
	"context"

	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PollStore is the slice of the poll store this feature needs.
type PollStore interface {
	Create(ctx context.Context, p models.Poll) (models.Poll, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Poll, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Poll, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	RecordBallot(ctx context.Context, id, participant primitive.ObjectID, answers []string) error
}

// EventReader resolves the poll's event for the membership checks.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for poll endpoints.
type Handler struct {
	Polls  PollStore
	Events EventReader
	Log    *zap.Logger
}

func NewHandler(polls PollStore, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{Polls: polls, Events: events, Log: logger}
}
