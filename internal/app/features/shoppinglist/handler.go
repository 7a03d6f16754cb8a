// internal/app/features/shoppinglist/handler.go
package shoppinglist

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/shoppinglist"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ItemStore is the slice of the shopping list store this feature needs.
type ItemStore interface {
	Create(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.ShoppingListItem, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.ShoppingListItem, error)
	Update(ctx context.Context, id primitive.ObjectID, upd shoppingliststore.ItemUpdate) (models.ShoppingListItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// EventReader resolves the list's event for the membership and toggle
// checks.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for shopping list endpoints.
type Handler struct {
	Items  ItemStore
	Events EventReader
	Log    *zap.Logger
}

func NewHandler(items ItemStore, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{Items: items, Events: events, Log: logger}
}
