package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateRepo inserts a repository record for the given owner and name.
func (f *Fixtures) CreateRepo(ctx context.Context, ownerID, name, title string) models.Repo {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Repo{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("repos").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test repo record: %v", err)
	}
	return r
}

// CreateActivity inserts an unread activity record for the given user.
func (f *Fixtures) CreateActivity(ctx context.Context, userID, typ, title string) models.Activity {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Activity{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("activities").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test activity: %v", err)
	}
	return a
}
