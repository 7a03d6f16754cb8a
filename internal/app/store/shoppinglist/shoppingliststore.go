package shoppingliststore

import (
	"context"
	"errors"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("shopping_list_items")}
}

// Create inserts an item; the unique (event, folded name) index rejects a
// second item with the same name on the same event.
func (s *Store) Create(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	item.ID = primitive.NewObjectID()
	item.NameCI = text.Fold(item.Name)
	item.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ShoppingListItem{}, apperr.New(apperr.Conflict, "this item is already on the list")
		}
		return models.ShoppingListItem{}, err
	}
	return item, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ShoppingListItem{}, apperr.New(apperr.NotFound, "shopping list item not found")
		}
		return models.ShoppingListItem{}, err
	}
	return item, nil
}

func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.ShoppingListItem, error) {
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	var items []models.ShoppingListItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ItemUpdate carries the mutable item fields; nil pointers are untouched.
// The name itself is fixed at creation so the uniqueness key never moves.
type ItemUpdate struct {
	Quantity    *int
	ArrivalTime *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd ItemUpdate) (models.ShoppingListItem, error) {
	set := bson.M{}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.ArrivalTime != nil {
		set["arrival_time"] = *upd.ArrivalTime
	}
	if len(set) == 0 {
		return s.GetByID(ctx, id)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.ShoppingListItem
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ShoppingListItem{}, apperr.New(apperr.NotFound, "shopping list item not found")
		}
		return models.ShoppingListItem{}, err
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "shopping list item not found")
	}
	return nil
}

// DeleteByEvent clears the list when its event is deleted or the feature
// is switched off.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	return err
}
