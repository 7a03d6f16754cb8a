package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/convenehq/convene/internal/app/system/apperr"
	"github.com/convenehq/convene/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Members == nil {
		g.Members = []primitive.ObjectID{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, err
	}
	return g, nil
}

// ListVisible returns public and private groups plus the secret ones the
// user belongs to. Secret groups stay invisible to everyone else.
func (s *Store) ListVisible(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"type": bson.M{"$ne": models.GroupTypeSecret}},
		bson.M{"administrators": userID},
		bson.M{"members": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// InfoUpdate carries the mutable group fields; nil pointers are untouched.
type InfoUpdate struct {
	Name              *string
	Description       *string
	Icon              *string
	CoverPhoto        *string
	Type              *string
	AllowMemberPosts  *bool
	AllowMemberEvents *bool
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) (models.Group, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Icon != nil {
		set["icon"] = *upd.Icon
	}
	if upd.CoverPhoto != nil {
		set["cover_photo"] = *upd.CoverPhoto
	}
	if upd.Type != nil {
		set["type"] = *upd.Type
	}
	if upd.AllowMemberPosts != nil {
		set["allow_member_posts"] = *upd.AllowMemberPosts
	}
	if upd.AllowMemberEvents != nil {
		set["allow_member_events"] = *upd.AllowMemberEvents
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.New(apperr.NotFound, "group not found")
	}
	return nil
}

// Join adds the user to members unless they are already a member or an
// administrator.
func (s *Store) Join(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error) {
	filter := bson.M{
		"_id":            id,
		"members":        bson.M{"$ne": userID},
		"administrators": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.Invalid, "you are already a member of this group")
		}
		return models.Group{}, err
	}
	return g, nil
}

// LeaveMember removes a plain member.
func (s *Store) LeaveMember(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error) {
	filter := bson.M{"_id": id, "members": userID}
	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.Invalid, "you are not a member of this group")
		}
		return models.Group{}, err
	}
	return g, nil
}

// LeaveAdministrator removes an administrator, guarded so the last one
// cannot go: the filter requires a second administrator to be present.
func (s *Store) LeaveAdministrator(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error) {
	filter := bson.M{
		"_id":              id,
		"administrators":   userID,
		"administrators.1": bson.M{"$exists": true},
	}
	update := bson.M{
		"$pull": bson.M{"administrators": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.Invalid, "a group must keep at least one administrator")
		}
		return models.Group{}, err
	}
	return g, nil
}

// PromoteAdministrator moves a member into administrators in a single
// update, so the user is never in both arrays.
func (s *Store) PromoteAdministrator(ctx context.Context, id, userID primitive.ObjectID) (models.Group, error) {
	filter := bson.M{"_id": id, "members": userID}
	update := bson.M{
		"$addToSet": bson.M{"administrators": userID},
		"$pull":     bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g models.Group
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, apperr.New(apperr.Invalid, "the user is not a member of this group")
		}
		return models.Group{}, err
	}
	return g, nil
}
