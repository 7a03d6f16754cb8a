// internal/app/features/carpooling/handler.go
package carpooling

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/carpooling"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RideStore is the slice of the carpooling store this feature needs.
type RideStore interface {
	Create(ctx context.Context, cp models.Carpooling) (models.Carpooling, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Carpooling, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Carpooling, error)
	UpdateOffer(ctx context.Context, id primitive.ObjectID, upd carpoolingstore.OfferUpdate) (models.Carpooling, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Join(ctx context.Context, id, userID primitive.ObjectID) (models.Carpooling, error)
	Leave(ctx context.Context, id, userID primitive.ObjectID) (models.Carpooling, error)
}

// EventReader resolves the event a ride belongs to.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for carpooling endpoints.
type Handler struct {
	Rides  RideStore
	Events EventReader
	Log    *zap.Logger
}

func NewHandler(rides RideStore, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{Rides: rides, Events: events, Log: logger}
}
