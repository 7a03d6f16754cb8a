// internal/app/features/events/handler.go
package events

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/events"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventStore is the slice of the event store this feature needs; handler
// tests swap in a fake.
type EventStore interface {
	Create(ctx context.Context, ev models.Event) (models.Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
	ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, upd eventstore.InfoUpdate) (models.Event, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Join(ctx context.Context, id, userID primitive.ObjectID) (models.Event, error)
	Leave(ctx context.Context, id, userID primitive.ObjectID) (models.Event, error)
	SetShoppingList(ctx context.Context, id primitive.ObjectID, enabled bool) (models.Event, error)
	SetCarpooling(ctx context.Context, id primitive.ObjectID, enabled bool) (models.Event, error)
}

// GroupReader resolves the parent group when an event is created from one.
type GroupReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

// EventCleaner removes the event-scoped utility documents when their event
// goes away.
type EventCleaner interface {
	DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error
}

// Handler is the dependency container for event endpoints.
type Handler struct {
	Events       EventStore
	Groups       GroupReader
	ShoppingList EventCleaner
	Carpooling   EventCleaner
	Log          *zap.Logger
}

func NewHandler(events EventStore, groups GroupReader, shoppingList, carpooling EventCleaner, logger *zap.Logger) *Handler {
	return &Handler{
		Events:       events,
		Groups:       groups,
		ShoppingList: shoppingList,
		Carpooling:   carpooling,
		Log:          logger,
	}
}
