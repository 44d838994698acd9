// internal/app/lifecycle/manager.go
// Package lifecycle owns repository create/rename/archive/delete and the
// reconciliation between the two sources of truth: the on-disk storage unit
// (authoritative for existence) and the metadata record (authoritative for
// title, description, and the archived flag).
//
// The protocol is adopt-on-read, compensate-on-write-failure. A storage
// unit without a record is served as a virtual view and adopted into a
// record by the first write that touches it. A write that changes storage
// but fails to commit the record rolls the storage change back; when the
// rollback itself fails the operation reports ErrInconsistent instead of
// claiming success.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/marcuwynu23/gitshelf/internal/app/gitstore"
	"github.com/marcuwynu23/gitshelf/internal/app/store/repos"
	"github.com/marcuwynu23/gitshelf/internal/app/system/addressing"
	"github.com/marcuwynu23/gitshelf/internal/app/system/keymutex"
	"github.com/marcuwynu23/gitshelf/internal/app/system/timeouts"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("repository not found")
	ErrAlreadyExists = errors.New("repository already exists")
	ErrInvalidInput  = errors.New("invalid repository name")
	// ErrInconsistent means a mutation partially succeeded and the
	// compensating rollback failed too; operator intervention is needed.
	ErrInconsistent = errors.New("repository state inconsistent")
)

// RecordStore is the slice of the metadata store the manager consumes.
// *repos.Store implements it; tests substitute an in-memory fake.
type RecordStore interface {
	Insert(ctx context.Context, r models.Repo) (models.Repo, error)
	GetByOwnerName(ctx context.Context, ownerID, name string) (models.Repo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Repo, error)
	UpdateMeta(ctx context.Context, ownerID, name string, title, description *string) (models.Repo, error)
	SetArchived(ctx context.Context, ownerID, name string, archived bool) (models.Repo, error)
	Rename(ctx context.Context, ownerID, oldName, newName string) error
	Delete(ctx context.Context, ownerID, name string) (int64, error)
}

// Manager serializes lifecycle operations per repository key and keeps the
// storage units and metadata records consistent with each other.
type Manager struct {
	storage gitstore.Storage
	records RecordStore
	addr    *addressing.Provider
	locks   *keymutex.Arena
	log     *zap.Logger
}

// NewManager creates a Manager. Each mutating operation is bounded by
// timeouts.Op, rollback included.
func NewManager(storage gitstore.Storage, records RecordStore, addr *addressing.Provider, logger *zap.Logger) *Manager {
	return &Manager{
		storage: storage,
		records: records,
		addr:    addr,
		locks:   keymutex.New(),
		log:     logger,
	}
}

func lockKey(ownerID, name string) string {
	return ownerID + "/" + name
}

// view joins a record with the derived addresses.
func (m *Manager) view(rec models.Repo) models.RepoView {
	title := rec.Title
	if title == "" {
		title = models.DisplayTitle(rec.Name)
	}
	return models.RepoView{
		Name:        rec.Name,
		Title:       title,
		Description: rec.Description,
		Archived:    rec.Archived,
		SSHAddress:  m.addr.SSH(rec.OwnerID, rec.Name),
		HTTPAddress: m.addr.HTTP(rec.OwnerID, rec.Name),
	}
}

// virtualView is the adopt-on-read shape for a storage unit with no record.
func (m *Manager) virtualView(ownerID, name string) models.RepoView {
	return models.RepoView{
		Name:        name,
		Title:       models.DisplayTitle(name),
		Archived:    false,
		SSHAddress:  m.addr.SSH(ownerID, name),
		HTTPAddress: m.addr.HTTP(ownerID, name),
		Virtual:     true,
	}
}

// Create provisions the storage unit and inserts its record. The unit is
// created first; when the record insert fails the unit is removed again so
// no orphan is left behind.
func (m *Manager) Create(ctx context.Context, ownerID, requestedName, title, description string) (models.RepoView, error) {
	name := models.CanonicalRepoName(requestedName)
	if ownerID == "" || name == "" {
		return models.RepoView{}, ErrInvalidInput
	}

	release := m.locks.Lock(lockKey(ownerID, name))
	defer release()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Op())
	defer cancel()

	exists, err := m.storage.Exists(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	if exists {
		return models.RepoView{}, ErrAlreadyExists
	}
	if _, err := m.records.GetByOwnerName(ctx, ownerID, name); err == nil {
		// A record without a unit is a leftover from a partial delete.
		// Reap it so the name becomes usable again.
		m.log.Warn("reaping stale record with no storage unit",
			zap.String("owner_id", ownerID),
			zap.String("name", name))
		if _, err := m.records.Delete(ctx, ownerID, name); err != nil {
			return models.RepoView{}, err
		}
	} else if !errors.Is(err, repos.ErrNotFound) {
		return models.RepoView{}, err
	}

	if err := m.storage.Create(ctx, ownerID, name); err != nil {
		return models.RepoView{}, err
	}

	rec, err := m.records.Insert(ctx, models.Repo{
		OwnerID:     ownerID,
		Name:        name,
		Title:       title,
		Description: description,
	})
	if err != nil {
		if rbErr := m.storage.Remove(context.WithoutCancel(ctx), ownerID, name); rbErr != nil {
			m.log.Error("create rollback failed, storage unit orphaned",
				zap.String("owner_id", ownerID),
				zap.String("name", name),
				zap.NamedError("insert_err", err),
				zap.Error(rbErr))
			return models.RepoView{}, fmt.Errorf("%w: record insert failed and unit removal failed: %v", ErrInconsistent, rbErr)
		}
		if errors.Is(err, repos.ErrDuplicateName) {
			return models.RepoView{}, ErrAlreadyExists
		}
		return models.RepoView{}, err
	}

	return m.view(rec), nil
}

// List enumerates the owner's storage units and left-joins the records by
// name. A unit with no record yields a virtual view, never an error.
func (m *Manager) List(ctx context.Context, ownerID string) ([]models.RepoView, error) {
	names, err := m.storage.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	recs, err := m.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.Repo, len(recs))
	for _, r := range recs {
		byName[r.Name] = r
	}

	views := make([]models.RepoView, 0, len(names))
	for _, name := range names {
		if rec, ok := byName[name]; ok {
			views = append(views, m.view(rec))
		} else {
			views = append(views, m.virtualView(ownerID, name))
		}
	}
	return views, nil
}

// Get returns the metadata view for one repository. A missing record is not
// fatal as long as the storage unit exists; no record is created.
func (m *Manager) Get(ctx context.Context, ownerID, name string) (models.RepoView, error) {
	name = models.CanonicalRepoName(name)
	if ownerID == "" || name == "" {
		return models.RepoView{}, ErrInvalidInput
	}

	exists, err := m.storage.Exists(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	if !exists {
		return models.RepoView{}, ErrNotFound
	}

	rec, err := m.records.GetByOwnerName(ctx, ownerID, name)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return m.virtualView(ownerID, name), nil
		}
		return models.RepoView{}, err
	}
	return m.view(rec), nil
}

// UpdateMeta edits title and/or description. A repository that has storage
// but no record is adopted here: the record is created with the supplied or
// default title instead of failing.
func (m *Manager) UpdateMeta(ctx context.Context, ownerID, name string, title, description *string) (models.RepoView, error) {
	name = models.CanonicalRepoName(name)
	if ownerID == "" || name == "" {
		return models.RepoView{}, ErrInvalidInput
	}

	release := m.locks.Lock(lockKey(ownerID, name))
	defer release()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Op())
	defer cancel()

	exists, err := m.storage.Exists(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	if !exists {
		return models.RepoView{}, ErrNotFound
	}

	rec, err := m.records.UpdateMeta(ctx, ownerID, name, title, description)
	if errors.Is(err, repos.ErrNotFound) {
		rec, err = m.adopt(ctx, ownerID, name, title, description, false)
	}
	if err != nil {
		return models.RepoView{}, err
	}
	return m.view(rec), nil
}

// Archive marks the record archived; Unarchive clears it. Storage content
// is never touched. A record is adopted when absent.
func (m *Manager) Archive(ctx context.Context, ownerID, name string) (models.RepoView, error) {
	return m.setArchived(ctx, ownerID, name, true)
}

// Unarchive clears the archived flag.
func (m *Manager) Unarchive(ctx context.Context, ownerID, name string) (models.RepoView, error) {
	return m.setArchived(ctx, ownerID, name, false)
}

func (m *Manager) setArchived(ctx context.Context, ownerID, name string, archived bool) (models.RepoView, error) {
	name = models.CanonicalRepoName(name)
	if ownerID == "" || name == "" {
		return models.RepoView{}, ErrInvalidInput
	}

	release := m.locks.Lock(lockKey(ownerID, name))
	defer release()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Op())
	defer cancel()

	exists, err := m.storage.Exists(ctx, ownerID, name)
	if err != nil {
		return models.RepoView{}, err
	}
	if !exists {
		return models.RepoView{}, ErrNotFound
	}

	rec, err := m.records.SetArchived(ctx, ownerID, name, archived)
	if errors.Is(err, repos.ErrNotFound) {
		rec, err = m.adopt(ctx, ownerID, name, nil, nil, archived)
	}
	if err != nil {
		return models.RepoView{}, err
	}
	return m.view(rec), nil
}

// adopt creates the record for a storage unit discovered without one.
func (m *Manager) adopt(ctx context.Context, ownerID, name string, title, description *string, archived bool) (models.Repo, error) {
	rec := models.Repo{
		OwnerID:  ownerID,
		Name:     name,
		Title:    models.DisplayTitle(name),
		Archived: archived,
	}
	if title != nil && *title != "" {
		rec.Title = *title
	}
	if description != nil {
		rec.Description = *description
	}
	return m.records.Insert(ctx, rec)
}

// Rename moves the storage unit and then updates the record's name. When
// the record update fails the move is reversed so the unit's name never
// disagrees with every known record.
func (m *Manager) Rename(ctx context.Context, ownerID, oldName, newName string) (models.RepoView, error) {
	oldName = models.CanonicalRepoName(oldName)
	newName = models.CanonicalRepoName(newName)
	if ownerID == "" || oldName == "" || newName == "" {
		return models.RepoView{}, ErrInvalidInput
	}
	if oldName == newName {
		return models.RepoView{}, ErrAlreadyExists
	}

	// Both keys are involved; take them in sorted order so two concurrent
	// renames cannot deadlock.
	first, second := lockKey(ownerID, oldName), lockKey(ownerID, newName)
	if second < first {
		first, second = second, first
	}
	releaseFirst := m.locks.Lock(first)
	defer releaseFirst()
	releaseSecond := m.locks.Lock(second)
	defer releaseSecond()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Op())
	defer cancel()

	exists, err := m.storage.Exists(ctx, ownerID, oldName)
	if err != nil {
		return models.RepoView{}, err
	}
	if !exists {
		return models.RepoView{}, ErrNotFound
	}

	if _, err := m.records.GetByOwnerName(ctx, ownerID, newName); err == nil {
		return models.RepoView{}, ErrAlreadyExists
	} else if !errors.Is(err, repos.ErrNotFound) {
		return models.RepoView{}, err
	}
	taken, err := m.storage.Exists(ctx, ownerID, newName)
	if err != nil {
		return models.RepoView{}, err
	}
	if taken {
		return models.RepoView{}, ErrAlreadyExists
	}

	if err := m.storage.Move(ctx, ownerID, oldName, newName); err != nil {
		return models.RepoView{}, err
	}

	if err := m.records.Rename(ctx, ownerID, oldName, newName); err != nil {
		if rbErr := m.storage.Move(context.WithoutCancel(ctx), ownerID, newName, oldName); rbErr != nil {
			m.log.Error("rename rollback failed, unit name disagrees with record",
				zap.String("owner_id", ownerID),
				zap.String("old_name", oldName),
				zap.String("new_name", newName),
				zap.NamedError("rename_err", err),
				zap.Error(rbErr))
			return models.RepoView{}, fmt.Errorf("%w: record rename failed and unit move-back failed: %v", ErrInconsistent, rbErr)
		}
		if errors.Is(err, repos.ErrDuplicateName) {
			return models.RepoView{}, ErrAlreadyExists
		}
		return models.RepoView{}, err
	}

	rec, err := m.records.GetByOwnerName(ctx, ownerID, newName)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			// Storage-only repository: the rename was a pure unit move.
			return m.virtualView(ownerID, newName), nil
		}
		return models.RepoView{}, err
	}
	return m.view(rec), nil
}

// Delete removes the storage unit and then its record. When storage removal
// fails the record is left in place so the repository is never declared
// gone while its content still exists. Record deletion is idempotent.
func (m *Manager) Delete(ctx context.Context, ownerID, name string) error {
	name = models.CanonicalRepoName(name)
	if ownerID == "" || name == "" {
		return ErrInvalidInput
	}

	release := m.locks.Lock(lockKey(ownerID, name))
	defer release()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Op())
	defer cancel()

	exists, err := m.storage.Exists(ctx, ownerID, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	if err := m.storage.Remove(ctx, ownerID, name); err != nil {
		return err
	}

	if _, err := m.records.Delete(context.WithoutCancel(ctx), ownerID, name); err != nil {
		// The unit is gone; the stale record is reaped by the next create
		// of the same name, but flag it rather than claim a clean delete.
		m.log.Error("record delete failed after unit removal",
			zap.String("owner_id", ownerID),
			zap.String("name", name),
			zap.Error(err))
		return fmt.Errorf("%w: unit removed but record delete failed: %v", ErrInconsistent, err)
	}
	return nil
}
