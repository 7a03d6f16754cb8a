package ticketstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store covers ticket types and the tickets sold against them.
type Store struct {
	types   *mongo.Collection
	tickets *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		types:   db.Collection("ticket_types"),
		tickets: db.Collection("tickets"),
	}
}

// BuyerKey folds the buyer identity into the key backing the
// one-ticket-per-buyer index.
func BuyerKey(firstName, lastName, address string) string {
	return strings.Join([]string{text.Fold(firstName), text.Fold(lastName), text.Fold(address)}, "|")
}

func (s *Store) CreateType(ctx context.Context, t models.TicketType) (models.TicketType, error) {
	t.ID = primitive.NewObjectID()
	t.SoldQuantity = 0
	t.CreatedAt = time.Now().UTC()
	if _, err := s.types.InsertOne(ctx, t); err != nil {
		return models.TicketType{}, err
	}
	return t, nil
}

func (s *Store) GetType(ctx context.Context, id primitive.ObjectID) (models.TicketType, error) {
	var t models.TicketType
	if err := s.types.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TicketType{}, apperr.New(apperr.NotFound, "ticket type not found")
		}
		return models.TicketType{}, err
	}
	return t, nil
}

func (s *Store) ListTypesByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.TicketType, error) {
	cur, err := s.types.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	var types []models.TicketType
	if err := cur.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// TypeUpdate carries the mutable ticket type fields.
type TypeUpdate struct {
	Name          *string
	Amount        *float64
	QuantityLimit *int
}

// UpdateType edits a type, guarded so the quantity limit can never drop
// below what has already been sold.
func (s *Store) UpdateType(ctx context.Context, id primitive.ObjectID, upd TypeUpdate) (models.TicketType, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Amount != nil {
		set["amount"] = *upd.Amount
	}
	filter := bson.M{"_id": id}
	if upd.QuantityLimit != nil {
		set["quantity_limit"] = *upd.QuantityLimit
		filter["sold_quantity"] = bson.M{"$lte": *upd.QuantityLimit}
	}
	if len(set) == 0 {
		return s.GetType(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.TicketType
	if err := s.types.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, gerr := s.GetType(ctx, id); gerr != nil {
				return models.TicketType{}, gerr
			}
			return models.TicketType{}, apperr.New(apperr.Invalid, "quantity limit cannot drop below tickets already sold")
		}
		return models.TicketType{}, err
	}
	return t, nil
}

// DeleteType removes a type only while nothing has been sold against it.
func (s *Store) DeleteType(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.types.DeleteOne(ctx, bson.M{"_id": id, "sold_quantity": 0})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		if _, gerr := s.GetType(ctx, id); gerr != nil {
			return gerr
		}
		return apperr.New(apperr.Invalid, "tickets have already been sold for this type")
	}
	return nil
}

// IncrementSold reserves one ticket: the $expr guard keeps sold_quantity
// under the limit no matter how many purchases race.
func (s *Store) IncrementSold(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$lt": bson.A{"$sold_quantity", "$quantity_limit"}},
	}
	res, err := s.types.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"sold_quantity": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.Invalid, "this ticket type is sold out")
	}
	return nil
}

// DecrementSold releases a reservation that did not turn into a ticket.
func (s *Store) DecrementSold(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "sold_quantity": bson.M{"$gt": 0}}
	_, err := s.types.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"sold_quantity": -1}})
	return err
}

// CreateTicket inserts the purchase record. The unique (event, buyer)
// index turns a repeat buyer into a Conflict.
func (s *Store) CreateTicket(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	t.ID = primitive.NewObjectID()
	t.Serial = uuid.NewString()
	t.BuyerCI = BuyerKey(t.BuyerFirstName, t.BuyerLastName, t.BuyerAddress)
	t.PurchaseDate = time.Now().UTC()
	if _, err := s.tickets.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Ticket{}, apperr.New(apperr.Conflict, "this buyer already holds a ticket for the event")
		}
		return models.Ticket{}, err
	}
	return t, nil
}

func (s *Store) GetTicket(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	if err := s.tickets.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Ticket{}, apperr.New(apperr.NotFound, "ticket not found")
		}
		return models.Ticket{}, err
	}
	return t, nil
}

func (s *Store) ListTicketsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Ticket, error) {
	cur, err := s.tickets.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	var tickets []models.Ticket
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}
