// internal/app/gitstore/gitstore.go
// Package gitstore is the storage collaborator: it owns the on-disk bare git
// repositories that are the ground truth for repository existence.
//
// Layout: <root>/<ownerID>/<name>, where name always carries the ".git"
// suffix. Content-level operations (trees, blobs, branches, commits) go
// through go-git; unit-level operations (create, move, remove) act on the
// directory itself.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

var (
	// ErrUnavailable wraps transient filesystem or repository failures.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrRefNotFound means the requested ref does not exist in the unit.
	ErrRefNotFound = errors.New("ref not found")
	// ErrInvalidName rejects owner or repository names that would escape the
	// storage root.
	ErrInvalidName = errors.New("invalid name")
)

// DefaultRef is the ref used when a caller does not name one.
const DefaultRef = "HEAD"

// Storage is the boundary contract the lifecycle manager consumes. The
// go-git backed Store below is the production implementation; tests use an
// in-memory fake.
type Storage interface {
	Exists(ctx context.Context, ownerID, name string) (bool, error)
	Create(ctx context.Context, ownerID, name string) error
	Remove(ctx context.Context, ownerID, name string) error
	Move(ctx context.Context, ownerID, oldName, newName string) error
	List(ctx context.Context, ownerID string) ([]string, error)
	ListPathsAtRef(ctx context.Context, ownerID, name, ref string) ([]string, error)
	ReadFileAtRef(ctx context.Context, ownerID, name, ref, path string) ([]byte, error)
	ListBranches(ctx context.Context, ownerID, name string) (models.Branches, error)
	ListCommits(ctx context.Context, ownerID, name string, max int) ([]models.Commit, error)
}

// Store implements Storage on a local directory tree of bare repositories.
type Store struct {
	root string
}

// New creates a Store rooted at dir.
func New(root string) *Store {
	return &Store{root: root}
}

// unitPath maps (ownerID, name) to the unit directory, rejecting segments
// that would escape the root.
func (s *Store) unitPath(ownerID, name string) (string, error) {
	for _, seg := range []string{ownerID, name} {
		if seg == "" || seg == "." || seg == ".." ||
			strings.ContainsAny(seg, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, seg)
		}
	}
	return filepath.Join(s.root, ownerID, name), nil
}

// Exists reports whether the storage unit for (ownerID, name) is on disk.
func (s *Store) Exists(ctx context.Context, ownerID, name string) (bool, error) {
	p, err := s.unitPath(ownerID, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return info.IsDir(), nil
}

// Create initializes a new bare repository for (ownerID, name).
func (s *Store) Create(ctx context.Context, ownerID, name string) error {
	p, err := s.unitPath(ownerID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := git.PlainInit(p, true); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Remove deletes the storage unit and all of its content.
func (s *Store) Remove(ctx context.Context, ownerID, name string) error {
	p, err := s.unitPath(ownerID, name)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Move renames the storage unit within the owner's namespace.
func (s *Store) Move(ctx context.Context, ownerID, oldName, newName string) error {
	oldPath, err := s.unitPath(ownerID, oldName)
	if err != nil {
		return err
	}
	newPath, err := s.unitPath(ownerID, newName)
	if err != nil {
		return err
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// List enumerates unit names under the owner's namespace, sorted. An owner
// with no namespace directory yet has no repositories; that is not an error.
func (s *Store) List(ctx context.Context, ownerID string) ([]string, error) {
	dir, err := s.unitPath(ownerID, "placeholder")
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// open opens the unit as a git repository.
func (s *Store) open(ownerID, name string) (*git.Repository, error) {
	p, err := s.unitPath(ownerID, name)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return repo, nil
}

// resolveCommit resolves ref to a commit. For the default ref of a unit with
// no commits yet it returns (nil, nil): an empty view, not an error.
func resolveCommit(repo *git.Repository, ref string) (*object.Commit, error) {
	if ref == "" {
		ref = DefaultRef
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		if ref == DefaultRef {
			// Unborn HEAD: the unit exists but holds no commits.
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrRefNotFound, ref)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrRefNotFound, ref)
	}
	return commit, nil
}

// ListPathsAtRef returns the forward-slash-delimited file paths visible at
// ref, one per file. A ref with zero commits yields an empty list.
func (s *Store) ListPathsAtRef(ctx context.Context, ownerID, name, ref string) ([]string, error) {
	repo, err := s.open(ownerID, name)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		return nil, nil
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var paths []string
	err = tree.Files().ForEach(func(f *object.File) error {
		paths = append(paths, f.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return paths, nil
}

// ReadFileAtRef returns the content of one file at ref.
func (s *Store) ReadFileAtRef(ctx context.Context, ownerID, name, ref, path string) ([]byte, error) {
	repo, err := s.open(ownerID, name)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		return nil, fmt.Errorf("%w: %q", ErrRefNotFound, ref)
	}

	f, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrRefNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return []byte(content), nil
}

// ListBranches returns the unit's branch names and the branch HEAD points at.
// A unit with no commits has no branches; that yields an empty listing.
func (s *Store) ListBranches(ctx context.Context, ownerID, name string) (models.Branches, error) {
	repo, err := s.open(ownerID, name)
	if err != nil {
		return models.Branches{}, err
	}

	var out models.Branches
	iter, err := repo.Branches()
	if err != nil {
		return models.Branches{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		out.All = append(out.All, ref.Name().Short())
		return nil
	})
	if err != nil {
		return models.Branches{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	sort.Strings(out.All)

	if head, err := repo.Head(); err == nil {
		out.Current = head.Name().Short()
	}
	return out, nil
}

// ListCommits returns up to max commit summaries at HEAD, newest first.
// max <= 0 means no limit. A unit with no commits yields an empty list.
func (s *Store) ListCommits(ctx context.Context, ownerID, name string, max int) ([]models.Commit, error) {
	repo, err := s.open(ownerID, name)
	if err != nil {
		return nil, err
	}
	head, err := resolveCommit(repo, DefaultRef)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, nil
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer iter.Close()

	var commits []models.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, models.Commit{
			Hash:    c.Hash.String(),
			Message: strings.TrimRight(c.Message, "\n"),
			Author:  c.Author.Name,
			Date:    c.Author.When.UTC().Format("2006-01-02T15:04:05Z"),
		})
		if max > 0 && len(commits) >= max {
			return storerStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, storerStop) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return commits, nil
}

// storerStop terminates commit iteration once max entries are collected.
var storerStop = errors.New("stop iteration")
