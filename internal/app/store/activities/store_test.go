package activities_test

import (
	"testing"
	"time"

	"github.com/marcuwynu23/gitshelf/internal/app/store/activities"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
	"github.com/marcuwynu23/gitshelf/internal/testutil"
)

func TestStore_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act, err := store.Append(ctx, models.Activity{
		UserID: "u-1",
		Type:   models.ActivityRepoCreate,
		Title:  "Created repository demo",
		Read:   true, // must be ignored
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if act.ID == "" {
		t.Error("expected ID to be auto-generated")
	}
	if act.Read {
		t.Error("expected new activity to be unread")
	}
	if act.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Page(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 5; i++ {
		if _, err := store.Append(ctx, models.Activity{UserID: "u-1", Type: models.ActivityPush, Title: "push"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := store.Append(ctx, models.Activity{UserID: "u-2", Type: models.ActivityPush, Title: "other user"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	page, err := store.Page(ctx, "u-1", 2, 0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total: got %d, want 5", page.Total)
	}
	if len(page.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(page.Records))
	}
	// Newest first.
	if page.Records[0].CreatedAt.Before(page.Records[1].CreatedAt) {
		t.Error("expected records sorted newest first")
	}

	page, err = store.Page(ctx, "u-1", 2, 4)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if len(page.Records) != 1 {
		t.Errorf("last page: expected 1 record, got %d", len(page.Records))
	}
	if page.Total != 5 {
		t.Errorf("last page Total: got %d, want 5", page.Total)
	}
}

func TestStore_Page_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	page, err := store.Page(ctx, "nobody", 10, 0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("Total: got %d, want 0", page.Total)
	}
	if page.Records == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(page.Records) != 0 {
		t.Errorf("expected 0 records, got %d", len(page.Records))
	}
}

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	act, err := store.Append(ctx, models.Activity{UserID: "u-1", Type: models.ActivityPush, Title: "push"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	ok, err := store.MarkRead(ctx, act.ID, "u-1")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !ok {
		t.Error("expected MarkRead to match")
	}

	// Marking an already-read activity still matches.
	ok, err = store.MarkRead(ctx, act.ID, "u-1")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !ok {
		t.Error("expected second MarkRead to match")
	}

	// Another user's ID must not match.
	ok, err = store.MarkRead(ctx, act.ID, "u-2")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if ok {
		t.Error("expected no match for foreign user")
	}

	ok, err = store.MarkRead(ctx, "missing-id", "u-1")
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if ok {
		t.Error("expected no match for missing activity")
	}
}

func TestStore_MarkAllRead_UnreadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, models.Activity{UserID: "u-1", Type: models.ActivityPush, Title: "push"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if _, err := store.Append(ctx, models.Activity{UserID: "u-2", Type: models.ActivityPush, Title: "other"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	n, err := store.UnreadCount(ctx, "u-1")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 3 {
		t.Errorf("UnreadCount: got %d, want 3", n)
	}

	changed, err := store.MarkAllRead(ctx, "u-1")
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if !changed {
		t.Error("expected MarkAllRead to modify records")
	}

	n, err = store.UnreadCount(ctx, "u-1")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 0 {
		t.Errorf("UnreadCount after MarkAllRead: got %d, want 0", n)
	}

	// Other users are untouched.
	n, err = store.UnreadCount(ctx, "u-2")
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if n != 1 {
		t.Errorf("UnreadCount for u-2: got %d, want 1", n)
	}

	changed, err = store.MarkAllRead(ctx, "u-1")
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if changed {
		t.Error("expected second MarkAllRead to be a no-op")
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activities.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes (second call) failed: %v", err)
	}
}
