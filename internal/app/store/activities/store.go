// internal/app/store/activities/store.go
package activities

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// Store manages the append-only per-user activity log. Records are never
// destroyed here; read state is the only field that changes after append.
type Store struct {
	c *mongo.Collection
}

// New creates a new activities Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// EnsureIndexes creates the paging and unread-count indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_activities_user_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "read", Value: 1}},
			Options: options.Index().SetName("idx_activities_user_read"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records a new activity for the user, unread by default.
func (s *Store) Append(ctx context.Context, a models.Activity) (models.Activity, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Read = false
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// PageResult is one page of a user's activity feed.
type PageResult struct {
	Total   int64             `json:"total"`
	Records []models.Activity `json:"records"`
}

// Page returns the user's activities newest first, with the total count for
// the feed's pager.
func (s *Store) Page(ctx context.Context, userID string, limit, offset int64) (PageResult, error) {
	filter := bson.M{"user_id": userID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return PageResult{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return PageResult{}, err
	}
	defer cur.Close(ctx)

	records := []models.Activity{}
	if err := cur.All(ctx, &records); err != nil {
		return PageResult{}, err
	}
	return PageResult{Total: total, Records: records}, nil
}

// MarkRead flips one record to read. Returns false, not an error, when the
// record does not exist or does not belong to the user.
func (s *Store) MarkRead(ctx context.Context, activityID, userID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": activityID, "user_id": userID},
		bson.M{"$set": bson.M{"read": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkAllRead flips every unread record for the user. Returns false when
// none were unread.
func (s *Store) MarkAllRead(ctx context.Context, userID string) (bool, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// UnreadCount returns the number of unread records for the user.
func (s *Store) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
}
