// internal/app/features/albums/handler.go
package albums

import (
	"context"

	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AlbumStore is the slice of the album store this feature needs.
type AlbumStore interface {
	Create(ctx context.Context, a models.Album) (models.Album, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Album, error)
	ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Album, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushPhoto(ctx context.Context, id, photoID primitive.ObjectID) error
	PullPhoto(ctx context.Context, id, photoID primitive.ObjectID) error
}

// PhotoStore is the slice of the photo store this feature needs.
type PhotoStore interface {
	Create(ctx context.Context, p models.Photo) (models.Photo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Photo, error)
	ListByAlbum(ctx context.Context, albumID primitive.ObjectID) ([]models.Photo, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByAlbum(ctx context.Context, albumID primitive.ObjectID) error
	AddComment(ctx context.Context, id primitive.ObjectID, c models.PhotoComment) error
}

// EventReader resolves the album's event for the membership checks.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for album and photo endpoints.
type Handler struct {
	Albums AlbumStore
	Photos PhotoStore
	Events EventReader
	Log    *zap.Logger
}

func NewHandler(albums AlbumStore, photos PhotoStore, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{Albums: albums, Photos: photos, Events: events, Log: logger}
}
