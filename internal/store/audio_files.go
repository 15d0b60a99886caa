package store

import (
	"context"
	"sync"
	"time"

	"github.com/transcripthub/backend/internal/models"
)

// NewAudioFile carries the caller-supplied fields for a create. The store
// assigns ID, UploadDate and the initial queued status.
type NewAudioFile struct {
	Name         string
	OriginalName string
	Size         int64
	Duration     float64
	Format       string
	FolderID     *int
}

// AudioFilePatch is a partial update. Nil fields are left unchanged.
// ClearFolder removes the folder reference; it wins over FolderID.
type AudioFilePatch struct {
	Name        *string
	Size        *int64
	Duration    *float64
	Format      *string
	Status      *models.FileStatus
	FolderID    *int
	ClearFolder bool
}

// AudioFileStore holds audio file records in insertion order.
type AudioFileStore struct {
	mu      sync.RWMutex
	files   []models.AudioFile
	latency latency
}

// NewAudioFileStore creates a store that delays each operation by delay to
// simulate backend I/O. Pass 0 for tests.
func NewAudioFileStore(delay time.Duration) *AudioFileStore {
	return &AudioFileStore{latency: latency{delay}}
}

// Seed replaces the store contents. Intended for startup fixtures and tests.
func (s *AudioFileStore) Seed(files []models.AudioFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append([]models.AudioFile(nil), files...)
}

// List returns a snapshot copy of all files in insertion order.
func (s *AudioFileStore) List(ctx context.Context) ([]models.AudioFile, error) {
	if err := s.latency.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AudioFile(nil), s.files...), nil
}

// Get returns the file with the given ID, or ErrNotFound.
func (s *AudioFileStore) Get(ctx context.Context, id int) (models.AudioFile, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.AudioFile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.files {
		if f.ID == id {
			return f, nil
		}
	}
	return models.AudioFile{}, ErrNotFound
}

// Create appends a new file, stamping ID, upload date and queued status.
func (s *AudioFileStore) Create(ctx context.Context, nf NewAudioFile) (models.AudioFile, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.AudioFile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.files))
	for i, f := range s.files {
		ids[i] = f.ID
	}

	f := models.AudioFile{
		ID:           nextID(ids),
		Name:         nf.Name,
		OriginalName: nf.OriginalName,
		Size:         nf.Size,
		Duration:     nf.Duration,
		Format:       nf.Format,
		UploadDate:   time.Now(),
		Status:       models.StatusQueued,
		FolderID:     nf.FolderID,
	}
	s.files = append(s.files, f)
	return f, nil
}

// Update merges the patch into the file and returns the updated copy, or
// ErrNotFound if the ID is absent.
func (s *AudioFileStore) Update(ctx context.Context, id int, patch AudioFilePatch) (models.AudioFile, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.AudioFile{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.files {
		if s.files[i].ID != id {
			continue
		}
		f := &s.files[i]
		if patch.Name != nil {
			f.Name = *patch.Name
		}
		if patch.Size != nil {
			f.Size = *patch.Size
		}
		if patch.Duration != nil {
			f.Duration = *patch.Duration
		}
		if patch.Format != nil {
			f.Format = *patch.Format
		}
		if patch.Status != nil {
			f.Status = *patch.Status
		}
		if patch.ClearFolder {
			f.FolderID = nil
		} else if patch.FolderID != nil {
			f.FolderID = patch.FolderID
		}
		return *f, nil
	}
	return models.AudioFile{}, ErrNotFound
}

// Delete removes the file by ID. A missing ID reports false, not an error.
func (s *AudioFileStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := s.latency.wait(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.files {
		if s.files[i].ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
