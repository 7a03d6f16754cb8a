// internal/app/features/groups/handler.go
package groups

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/groups"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GroupStore is the slice of the group store this feature needs; handler
// tests swap in a fake.
type GroupStore interface {
	Create(ctx context.Context, g models.Group) (models.Group, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, upd groupstore.InfoUpdate) (models.Group, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Join(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error)
	LeaveMember(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error)
	LeaveAdministrator(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error)
	PromoteAdministrator(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error)
}

// EventLister serves the group's event calendar.
type EventLister interface {
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Event, error)
}

// Handler is the dependency container for group endpoints.
type Handler struct {
	Groups GroupStore
	Events EventLister
	Log    *zap.Logger
}

func NewHandler(groups GroupStore, events EventLister, logger *zap.Logger) *Handler {
	return &Handler{Groups: groups, Events: events, Log: logger}
}
