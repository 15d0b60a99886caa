package store

import (
	"context"
	"sync"
	"time"

	"github.com/transcripthub/backend/internal/models"
)

// NewTranscript carries the caller-supplied fields for a transcript create.
type NewTranscript struct {
	AudioFileID int
	Speakers    []models.Speaker
}

// TranscriptPatch is a partial update. A non-nil Speakers slice replaces
// the full speaker list; transcripts are never partially updated below
// that granularity.
type TranscriptPatch struct {
	AudioFileID *int
	Speakers    []models.Speaker
}

// TranscriptStore holds transcript records in insertion order.
type TranscriptStore struct {
	mu          sync.RWMutex
	transcripts []models.Transcript
	latency     latency
}

// NewTranscriptStore creates a store with the given simulated latency.
func NewTranscriptStore(delay time.Duration) *TranscriptStore {
	return &TranscriptStore{latency: latency{delay}}
}

// Seed replaces the store contents.
func (s *TranscriptStore) Seed(transcripts []models.Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts = append([]models.Transcript(nil), transcripts...)
}

// List returns a snapshot copy of all transcripts in insertion order.
// Speaker lists are deep-copied so callers cannot alias stored segments.
func (s *TranscriptStore) List(ctx context.Context) ([]models.Transcript, error) {
	if err := s.latency.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transcript, len(s.transcripts))
	for i, t := range s.transcripts {
		out[i] = t
		out[i].Speakers = models.CloneSpeakers(t.Speakers)
	}
	return out, nil
}

// Get returns the transcript with the given ID, or ErrNotFound.
func (s *TranscriptStore) Get(ctx context.Context, id int) (models.Transcript, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Transcript{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transcripts {
		if t.ID == id {
			t.Speakers = models.CloneSpeakers(t.Speakers)
			return t, nil
		}
	}
	return models.Transcript{}, ErrNotFound
}

// Create appends a new transcript, stamping ID and creation date.
func (s *TranscriptStore) Create(ctx context.Context, nt NewTranscript) (models.Transcript, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Transcript{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, len(s.transcripts))
	for i, t := range s.transcripts {
		ids[i] = t.ID
	}

	t := models.Transcript{
		ID:          nextID(ids),
		AudioFileID: nt.AudioFileID,
		Speakers:    models.CloneSpeakers(nt.Speakers),
		CreatedAt:   time.Now(),
	}
	s.transcripts = append(s.transcripts, t)
	t.Speakers = models.CloneSpeakers(t.Speakers)
	return t, nil
}

// Update merges the patch into the transcript and returns the updated copy.
func (s *TranscriptStore) Update(ctx context.Context, id int, patch TranscriptPatch) (models.Transcript, error) {
	if err := s.latency.wait(ctx); err != nil {
		return models.Transcript{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transcripts {
		if s.transcripts[i].ID != id {
			continue
		}
		t := &s.transcripts[i]
		if patch.AudioFileID != nil {
			t.AudioFileID = *patch.AudioFileID
		}
		if patch.Speakers != nil {
			t.Speakers = models.CloneSpeakers(patch.Speakers)
		}
		out := *t
		out.Speakers = models.CloneSpeakers(t.Speakers)
		return out, nil
	}
	return models.Transcript{}, ErrNotFound
}

// Delete removes the transcript by ID. A missing ID reports false.
func (s *TranscriptStore) Delete(ctx context.Context, id int) (bool, error) {
	if err := s.latency.wait(ctx); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transcripts {
		if s.transcripts[i].ID == id {
			s.transcripts = append(s.transcripts[:i], s.transcripts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
