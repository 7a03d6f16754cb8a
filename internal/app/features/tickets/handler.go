// internal/app/features/tickets/handler.go
package tickets

import (
	"context"

	"github.com/convenehq/convene/internal/app/store/tickets"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TicketStore is the slice of the ticket store this feature needs.
type TicketStore interface {
	CreateType(ctx context.Context, t models.TicketType) (models.TicketType, error)
	GetType(ctx context.Context, id primitive.ObjectID) (models.TicketType, error)
	ListTypesByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.TicketType, error)
	UpdateType(ctx context.Context, id primitive.ObjectID, upd ticketstore.TypeUpdate) (models.TicketType, error)
	DeleteType(ctx context.Context, id primitive.ObjectID) error
	IncrementSold(ctx context.Context, id primitive.ObjectID) error
	DecrementSold(ctx context.Context, id primitive.ObjectID) error
	CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error)
	ListTicketsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Ticket, error)
}

// EventReader resolves the ticketed event.
type EventReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error)
}

// Handler is the dependency container for ticketing endpoints.
type Handler struct {
	Tickets TicketStore
	Events  EventReader
	Log     *zap.Logger
}

func NewHandler(tickets TicketStore, events EventReader, logger *zap.Logger) *Handler {
	return &Handler{Tickets: tickets, Events: events, Log: logger}
}
