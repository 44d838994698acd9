// internal/app/store/repos/store.go
package repos

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

var (
	ErrDuplicateName = errors.New("a repository with this name already exists")
	ErrNotFound      = errors.New("repository record not found")
)

// Store manages repository metadata records. Records enrich the on-disk
// storage units; existence checks belong to the storage collaborator, not
// to this store.
type Store struct {
	c *mongo.Collection
}

// New creates a new repos Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("repos")}
}

// EnsureIndexes creates the unique (owner_id, name) index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_repos_owner_name"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Insert adds a new record. Returns ErrDuplicateName when (owner_id, name)
// is already taken.
func (s *Store) Insert(ctx context.Context, r models.Repo) (models.Repo, error) {
	now := time.Now().UTC()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := s.c.InsertOne(ctx, r)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Repo{}, ErrDuplicateName
		}
		return models.Repo{}, err
	}
	return r, nil
}

// GetByOwnerName retrieves one record.
func (s *Store) GetByOwnerName(ctx context.Context, ownerID, name string) (models.Repo, error) {
	var r models.Repo
	err := s.c.FindOne(ctx, bson.M{"owner_id": ownerID, "name": name}).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Repo{}, ErrNotFound
		}
		return models.Repo{}, err
	}
	return r, nil
}

// ListByOwner returns all records for an owner.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]models.Repo, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var repos []models.Repo
	if err := cur.All(ctx, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// UpdateMeta sets title and/or description on an existing record. nil means
// "leave unchanged". Returns ErrNotFound when no record matches.
func (s *Store) UpdateMeta(ctx context.Context, ownerID, name string, title, description *string) (models.Repo, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if title != nil {
		set["title"] = *title
	}
	if description != nil {
		set["description"] = *description
	}

	var r models.Repo
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"owner_id": ownerID, "name": name},
		bson.M{"$set": set}, opts).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Repo{}, ErrNotFound
		}
		return models.Repo{}, err
	}
	return r, nil
}

// SetArchived flips the archived flag on an existing record.
// Returns ErrNotFound when no record matches.
func (s *Store) SetArchived(ctx context.Context, ownerID, name string, archived bool) (models.Repo, error) {
	var r models.Repo
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"owner_id": ownerID, "name": name},
		bson.M{"$set": bson.M{"archived": archived, "updated_at": time.Now().UTC()}}, opts).Decode(&r)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Repo{}, ErrNotFound
		}
		return models.Repo{}, err
	}
	return r, nil
}

// Rename updates the record's name field. A missing record is not an error:
// storage-only repositories rename without one. Returns ErrDuplicateName
// when the new name is already recorded for the owner.
func (s *Store) Rename(ctx context.Context, ownerID, oldName, newName string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"owner_id": ownerID, "name": oldName},
		bson.M{"$set": bson.M{"name": newName, "updated_at": time.Now().UTC()}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// Delete removes a record, reporting how many documents matched. Zero is
// not an error: deletion is idempotent on the metadata side.
func (s *Store) Delete(ctx context.Context, ownerID, name string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"owner_id": ownerID, "name": name})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
