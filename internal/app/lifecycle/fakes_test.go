// internal/app/lifecycle/fakes_test.go
// In-memory stand-ins for the storage and record collaborators, with
// injectable failures for the rollback paths.
package lifecycle

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcuwynu23/gitshelf/internal/app/store/repos"
	"github.com/marcuwynu23/gitshelf/internal/domain/models"
)

type fakeStorage struct {
	mu    sync.Mutex
	units map[string]map[string]bool // ownerID -> name -> present

	createErr error
	removeErr error
	moveErr   error
	// failMoveCall fails only the nth Move call (1-based) with moveCallErr;
	// 0 disables.
	failMoveCall int
	moveCallErr  error
	moveCalls    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{units: make(map[string]map[string]bool)}
}

func (s *fakeStorage) seed(ownerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.units[ownerID] == nil {
		s.units[ownerID] = make(map[string]bool)
	}
	s.units[ownerID][name] = true
}

func (s *fakeStorage) has(ownerID, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[ownerID][name]
}

func (s *fakeStorage) Exists(_ context.Context, ownerID, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units[ownerID][name], nil
}

func (s *fakeStorage) Create(_ context.Context, ownerID, name string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.seed(ownerID, name)
	return nil
}

func (s *fakeStorage) Remove(_ context.Context, ownerID, name string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.units[ownerID], name)
	return nil
}

func (s *fakeStorage) Move(_ context.Context, ownerID, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveCalls++
	if s.moveErr != nil {
		return s.moveErr
	}
	if s.failMoveCall > 0 && s.moveCalls == s.failMoveCall {
		return s.moveCallErr
	}
	delete(s.units[ownerID], oldName)
	if s.units[ownerID] == nil {
		s.units[ownerID] = make(map[string]bool)
	}
	s.units[ownerID][newName] = true
	return nil
}

func (s *fakeStorage) List(_ context.Context, ownerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.units[ownerID]))
	for name := range s.units[ownerID] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *fakeStorage) ListPathsAtRef(context.Context, string, string, string) ([]string, error) {
	return nil, nil
}

func (s *fakeStorage) ReadFileAtRef(context.Context, string, string, string, string) ([]byte, error) {
	return nil, nil
}

func (s *fakeStorage) ListBranches(context.Context, string, string) (models.Branches, error) {
	return models.Branches{}, nil
}

func (s *fakeStorage) ListCommits(context.Context, string, string, int) ([]models.Commit, error) {
	return nil, nil
}

type fakeRecords struct {
	mu   sync.Mutex
	recs map[string]models.Repo // ownerID/name

	insertErr error
	renameErr error
	deleteErr error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{recs: make(map[string]models.Repo)}
}

func recKey(ownerID, name string) string { return ownerID + "/" + name }

func (f *fakeRecords) seed(r models.Repo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.recs[recKey(r.OwnerID, r.Name)] = r
}

func (f *fakeRecords) get(ownerID, name string) (models.Repo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recs[recKey(ownerID, name)]
	return r, ok
}

func (f *fakeRecords) Insert(_ context.Context, r models.Repo) (models.Repo, error) {
	if f.insertErr != nil {
		return models.Repo{}, f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recKey(r.OwnerID, r.Name)
	if _, ok := f.recs[key]; ok {
		return models.Repo{}, repos.ErrDuplicateName
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	f.recs[key] = r
	return r, nil
}

func (f *fakeRecords) GetByOwnerName(_ context.Context, ownerID, name string) (models.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recs[recKey(ownerID, name)]
	if !ok {
		return models.Repo{}, repos.ErrNotFound
	}
	return r, nil
}

func (f *fakeRecords) ListByOwner(_ context.Context, ownerID string) ([]models.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Repo
	for _, r := range f.recs {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) UpdateMeta(_ context.Context, ownerID, name string, title, description *string) (models.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recKey(ownerID, name)
	r, ok := f.recs[key]
	if !ok {
		return models.Repo{}, repos.ErrNotFound
	}
	if title != nil {
		r.Title = *title
	}
	if description != nil {
		r.Description = *description
	}
	r.UpdatedAt = time.Now().UTC()
	f.recs[key] = r
	return r, nil
}

func (f *fakeRecords) SetArchived(_ context.Context, ownerID, name string, archived bool) (models.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recKey(ownerID, name)
	r, ok := f.recs[key]
	if !ok {
		return models.Repo{}, repos.ErrNotFound
	}
	r.Archived = archived
	r.UpdatedAt = time.Now().UTC()
	f.recs[key] = r
	return r, nil
}

func (f *fakeRecords) Rename(_ context.Context, ownerID, oldName, newName string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	oldKey, newKey := recKey(ownerID, oldName), recKey(ownerID, newName)
	r, ok := f.recs[oldKey]
	if !ok {
		return nil
	}
	if _, taken := f.recs[newKey]; taken {
		return repos.ErrDuplicateName
	}
	delete(f.recs, oldKey)
	r.Name = newName
	r.UpdatedAt = time.Now().UTC()
	f.recs[newKey] = r
	return nil
}

func (f *fakeRecords) Delete(_ context.Context, ownerID, name string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recKey(ownerID, name)
	if _, ok := f.recs[key]; !ok {
		return 0, nil
	}
	delete(f.recs, key)
	return 1, nil
}
