// internal/app/features/discussions/handler.go
package discussions

import (
	"context"

	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DiscussionStore is the slice of the discussion store this feature needs.
type DiscussionStore interface {
	Create(ctx context.Context, d models.Discussion) (models.Discussion, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error)
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Discussion, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Discussion, error)
	PushMessage(ctx context.Context, id, messageID primitive.ObjectID) error
	PullMessage(ctx context.Context, id, messageID primitive.ObjectID) error
}

// MessageStore is the slice of the message store this feature needs.
type MessageStore interface {
	Create(ctx context.Context, m models.Message) (models.Message, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Message, error)
	ListByDiscussion(ctx context.Context, discussionID primitive.ObjectID) ([]models.Message, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (models.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error
	PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error
}

// GroupReader resolves a group-scoped discussion's parent.
type GroupReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

// EventReader resolves an event-scoped discussion's parent.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for discussion endpoints.
type Handler struct {
	Discussions DiscussionStore
	Messages    MessageStore
	Groups      GroupReader
	Events      EventReader
	Log         *zap.Logger
}

func NewHandler(discussions DiscussionStore, messages MessageStore, groups GroupReader, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{
		Discussions: discussions,
		Messages:    messages,
		Groups:      groups,
		Events:      events,
		Log:         logger,
	}
}
