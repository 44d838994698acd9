// internal/domain/models/activity.go
package models

import "time"

// Activity event types.
const (
	ActivityPush          = "PUSH"
	ActivityCommit        = "COMMIT"
	ActivityRepoCreate    = "REPO_CREATE"
	ActivityRepoUpdate    = "REPO_UPDATE"
	ActivityRepoDelete    = "REPO_DELETE"
	ActivityRepoRename    = "REPO_RENAME"
	ActivityRepoArchive   = "REPO_ARCHIVE"
	ActivityRepoUnarchive = "REPO_UNARCHIVE"
	ActivityBranchCreate  = "BRANCH_CREATE"
	ActivityBranchDelete  = "BRANCH_DELETE"
	ActivityMemberAdd     = "MEMBER_ADD"
)

// Activity is one append-only event on a user's activity feed.
// Read is the only field that changes after the record is written.
type Activity struct {
	ID          string         `bson:"_id" json:"id"`
	UserID      string         `bson:"user_id" json:"user_id"`
	Type        string         `bson:"type" json:"type"`
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Link        string         `bson:"link,omitempty" json:"link,omitempty"`
	Data        map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	Read        bool           `bson:"read" json:"read"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `bson:"updated_at" json:"updated_at"`
}

// validActivityTypes indexes the known event types.
var validActivityTypes = map[string]struct{}{
	ActivityPush:          {},
	ActivityCommit:        {},
	ActivityRepoCreate:    {},
	ActivityRepoUpdate:    {},
	ActivityRepoDelete:    {},
	ActivityRepoRename:    {},
	ActivityRepoArchive:   {},
	ActivityRepoUnarchive: {},
	ActivityBranchCreate:  {},
	ActivityBranchDelete:  {},
	ActivityMemberAdd:     {},
}

// IsValidActivityType reports whether t is a known activity event type.
func IsValidActivityType(t string) bool {
	_, ok := validActivityTypes[t]
	return ok
}
