package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureDiscussions(ctx, db); err != nil {
		problems = append(problems, "discussions: "+err.Error())
	}
	if err := ensureMessages(ctx, db); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := ensureAlbums(ctx, db); err != nil {
		problems = append(problems, "albums: "+err.Error())
	}
	if err := ensurePhotos(ctx, db); err != nil {
		problems = append(problems, "photos: "+err.Error())
	}
	if err := ensurePolls(ctx, db); err != nil {
		problems = append(problems, "polls: "+err.Error())
	}
	if err := ensureShoppingListItems(ctx, db); err != nil {
		problems = append(problems, "shopping_list_items: "+err.Error())
	}
	if err := ensureTicketTypes(ctx, db); err != nil {
		problems = append(problems, "ticket_types: "+err.Error())
	}
	if err := ensureTickets(ctx, db); err != nil {
		problems = append(problems, "tickets: "+err.Error())
	}
	if err := ensureCarpoolings(ctx, db); err != nil {
		problems = append(problems, "carpoolings: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, coll string, idx []mongo.IndexModel) error {
	if len(idx) == 0 {
		return nil
	}
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, idx)
	return err
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: unique().SetName("uniq_email_ci")},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "events", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: options.Index().SetName("by_group")},
		{Keys: bson.D{{Key: "start_date", Value: 1}}, Options: options.Index().SetName("by_start")},
		{Keys: bson.D{{Key: "participants", Value: 1}}, Options: options.Index().SetName("by_participant")},
		{Keys: bson.D{{Key: "organizers", Value: 1}}, Options: options.Index().SetName("by_organizer")},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "groups", []mongo.IndexModel{
		{Keys: bson.D{{Key: "members", Value: 1}}, Options: options.Index().SetName("by_member")},
		{Keys: bson.D{{Key: "administrators", Value: 1}}, Options: options.Index().SetName("by_admin")},
	})
}

func ensureDiscussions(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "discussions", []mongo.IndexModel{
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: options.Index().SetName("by_group")},
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetName("by_event")},
	})
}

func ensureMessages(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "messages", []mongo.IndexModel{
		{Keys: bson.D{{Key: "discussion_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("by_discussion_time")},
	})
}

func ensureAlbums(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "albums", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetName("by_event")},
	})
}

func ensurePhotos(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "photos", []mongo.IndexModel{
		{Keys: bson.D{{Key: "album_id", Value: 1}}, Options: options.Index().SetName("by_album")},
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetName("by_event")},
	})
}

func ensurePolls(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "polls", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetName("by_event")},
	})
}

// Item names are unique per event; the folded name backs the constraint so
// "Chips" and "chips" collide.
func ensureShoppingListItems(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "shopping_list_items", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: unique().SetName("uniq_event_name")},
	})
}

func ensureTicketTypes(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "ticket_types", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: options.Index().SetName("by_event")},
	})
}

// One ticket per normalized buyer identity per event.
func ensureTickets(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "tickets", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "buyer_ci", Value: 1}},
			Options: unique().SetName("uniq_event_buyer")},
	})
}

func ensureCarpoolings(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "carpoolings", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "departure_time", Value: 1}},
			Options: options.Index().SetName("by_event_departure")},
	})
}
