// internal/app/features/users/handler.go
package users

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/users"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of the user store this feature needs; handler
// tests swap in a fake.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd userstore.ProfileUpdate) (models.User, error)
}

// TokenIssuer signs a bearer token for a freshly authenticated user.
type TokenIssuer interface {
	Issue(userID, email, name string) (string, error)
}

// Handler is the dependency container for account endpoints.
type Handler struct {
	Users      UserStore
	Tokens     TokenIssuer
	BcryptCost int
	Log        *zap.Logger
}

func NewHandler(users UserStore, tokens TokenIssuer, bcryptCost int, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Tokens:     tokens,
		BcryptCost: bcryptCost,
		Log:        logger,
	}
}
