package store

import (
	"context"
	"sync"
	"time"

	"github.com/transcripthub/backend/internal/models"
)

// NewFolder carries the caller-supplied fields for a folder create.
type NewFolder struct {
	Name     string
	ParentID *int
}

// FolderPatch is a partial update. Nil fields are left unchanged.
// ClearParent detaches the folder from its parent; it wins over ParentID.
type FolderPatch struct {
	Name        *string
	ParentID    *int
	ClearParent bool
}

// FolderStore holds folder records in insertion order.
type FolderStore struct {
	mu      sync.RWMutex
	folders []models.Folder
	latency latency
}

// NewFolderStore creates a store with the given simulated latency.
func NewFolderStore(delay time.Duration) *FolderStore {
	return &FolderStore{latency: latency{delay}}
}

// Seed replaces the store contents.
func (s *FolderStore) Seed(folders []models.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append([]models.Folder(nil), folders...)
}

// List returns a snapshot copy of all folders in insertion order.
func (s *FolderStore) List(ctx context.Context) ([]models.Folder, error) {
	if err := s.latency.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Folder(nil), s.folders...), nil
}

// Get returns the folder with the given ID, or ErrNotFound.
func (s *FolderStore) Get(ctx context.Context, id int) (models.Folder, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Folder{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Folder{}, ErrNotFound
}

// Create appends a new folder, stamping ID and creation date.
func (s *FolderStore) Create(ctx context.Context, nf NewFolder) (models.Folder, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Folder{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.folders))
	for i, f := range s.folders {
		ids[i] = f.ID
	}

	f := models.Folder{
		ID:        nextID(ids),
		Name:      nf.Name,
		ParentID:  nf.ParentID,
		CreatedAt: time.Now(),
	}
	s.folders = append(s.folders, f)
	return f, nil
}

// Update merges the patch into the folder and returns the updated copy.
func (s *FolderStore) Update(ctx context.Context, id int, patch FolderPatch) (models.Folder, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Folder{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID != id {
			continue
		}
		f := &s.folders[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.ClearParent {
			f.ParentID = nil
		} else if patch.ParentID != nil {
			f.ParentID = patch.ParentID
		}
		return *f, nil
	}
	return models.Folder{}, ErrNotFound
}

// Delete removes the folder by ID. A missing ID reports false, not an error.
// Non-empty checks live in the catalog, not here.
func (s *FolderStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := s.latency.wait(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.folders {
		if s.folders[i].ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
