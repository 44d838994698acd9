package repos_test

import (
	"errors"
	"testing"

	"github.com/marcuwynu23/gitshelf/internal/app/store/repos"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
	"github.com/marcuwynu23/gitshelf/internal/testutil"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.Insert(ctx, models.Repo{
		OwnerID:     "alice",
		Name:        "demo.git",
		Title:       "Demo",
		Description: "a demo repo",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected ID to be auto-generated")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Insert_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git"}); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	_, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git"})
	if !errors.Is(err, repos.ErrDuplicateName) {
		t.Errorf("got %v, want ErrDuplicateName", err)
	}

	// Same name under a different owner is allowed.
	if _, err := store.Insert(ctx, models.Repo{OwnerID: "bob", Name: "demo.git"}); err != nil {
		t.Errorf("insert under other owner failed: %v", err)
	}
}

func TestStore_GetByOwnerName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git", Title: "Demo"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rec, err := store.GetByOwnerName(ctx, "alice", "demo.git")
	if err != nil {
		t.Fatalf("GetByOwnerName failed: %v", err)
	}
	if rec.Title != "Demo" {
		t.Errorf("Title: got %q, want %q", rec.Title, "Demo")
	}

	_, err = store.GetByOwnerName(ctx, "alice", "missing.git")
	if !errors.Is(err, repos.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"a.git", "b.git"} {
		if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: name}); err != nil {
			t.Fatalf("Insert %s failed: %v", name, err)
		}
	}
	if _, err := store.Insert(ctx, models.Repo{OwnerID: "bob", Name: "c.git"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	recs, err := store.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 records, got %d", len(recs))
	}
	for _, r := range recs {
		if r.OwnerID != "alice" {
			t.Errorf("OwnerID: got %q, want alice", r.OwnerID)
		}
	}
}

func TestStore_ListByOwner_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	recs, err := store.ListByOwner(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected 0 records, got %d", len(recs))
	}
}

func TestStore_UpdateMeta(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orig, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git", Title: "Demo", Description: "old"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	title := "New Title"
	rec, err := store.UpdateMeta(ctx, "alice", "demo.git", &title, nil)
	if err != nil {
		t.Fatalf("UpdateMeta failed: %v", err)
	}
	if rec.Title != "New Title" {
		t.Errorf("Title: got %q, want %q", rec.Title, "New Title")
	}
	// nil description leaves the old value alone.
	if rec.Description != "old" {
		t.Errorf("Description: got %q, want %q", rec.Description, "old")
	}
	if !rec.UpdatedAt.After(orig.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}

	_, err = store.UpdateMeta(ctx, "alice", "missing.git", &title, nil)
	if !errors.Is(err, repos.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_SetArchived(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rec, err := store.SetArchived(ctx, "alice", "demo.git", true)
	if err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	if !rec.Archived {
		t.Error("expected Archived to be true")
	}

	rec, err = store.SetArchived(ctx, "alice", "demo.git", false)
	if err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	if rec.Archived {
		t.Error("expected Archived to be false")
	}

	_, err = store.SetArchived(ctx, "alice", "missing.git", true)
	if !errors.Is(err, repos.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_Rename(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "old.git", Title: "Demo"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.Rename(ctx, "alice", "old.git", "new.git"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	rec, err := store.GetByOwnerName(ctx, "alice", "new.git")
	if err != nil {
		t.Fatalf("GetByOwnerName failed: %v", err)
	}
	if rec.Title != "Demo" {
		t.Errorf("Title: got %q, want %q", rec.Title, "Demo")
	}
	if _, err := store.GetByOwnerName(ctx, "alice", "old.git"); !errors.Is(err, repos.ErrNotFound) {
		t.Errorf("old name lookup: got %v, want ErrNotFound", err)
	}
}

func TestStore_Rename_MissingRecordIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A repository may have a storage unit but no record; renaming it must
	// not fail at the store level.
	if err := store.Rename(ctx, "alice", "missing.git", "other.git"); err != nil {
		t.Errorf("Rename failed: %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Insert(ctx, models.Repo{OwnerID: "alice", Name: "demo.git"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	n, err := store.Delete(ctx, "alice", "demo.git")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	// Deleting again is not an error.
	n, err = store.Delete(ctx, "alice", "demo.git")
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted count: got %d, want 0", n)
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := repos.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes (second call) failed: %v", err)
	}
}
