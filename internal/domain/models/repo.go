// internal/domain/models/repo.go
package models

import (
	"strings"
	"time"
)

// RepoSuffix is the canonical suffix every stored repository name carries.
// The on-disk storage unit is always addressed by the suffixed name.
const RepoSuffix = ".git"

// Repo is the metadata record for one hosted repository.
//
// Existence of the on-disk storage unit is the ground truth for "does this
// repository exist"; this record only enriches it with human-facing metadata
// (title, description, archived flag). A storage unit may exist without a
// record; the lifecycle manager adopts one lazily.
type Repo struct {
	ID          string    `bson:"_id" json:"id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	Name        string    `bson:"name" json:"name"` // always carries RepoSuffix
	Title       string    `bson:"title,omitempty" json:"title,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Archived    bool      `bson:"archived" json:"archived"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// RepoView is the API shape for a repository: the storage-side name joined
// with whatever metadata is known. Virtual is true when no record backs the
// view yet (adopt-on-read).
type RepoView struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Archived    bool    `json:"archived"`
	SSHAddress  *string `json:"sshAddress"`
	HTTPAddress string  `json:"httpAddress"`
	Virtual     bool    `json:"virtual,omitempty"`
}

// CanonicalRepoName normalizes a user-supplied repository name to the stored
// form: trimmed, with the RepoSuffix appended when missing. Returns "" for
// names that are empty after trimming.
func CanonicalRepoName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == RepoSuffix {
		return ""
	}
	if !strings.HasSuffix(name, RepoSuffix) {
		name += RepoSuffix
	}
	return name
}

// DisplayTitle derives the default human title for a repository name by
// stripping the canonical suffix.
func DisplayTitle(name string) string {
	return strings.TrimSuffix(name, RepoSuffix)
}
