// Package processing drives the mock transcription pipeline. Files move
// queued -> processing -> completed|failed; a failed file can be re-queued
// manually and a non-terminal file can be cancelled out of the queue.
// Real speech-to-text would slot in behind the same transitions.
package processing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/store"
)

// ErrInvalidTransition rejects a retry or cancel the status machine does
// not allow.
var ErrInvalidTransition = errors.New("processing: invalid status transition")

// QueueStats summarizes the queue for the monitoring view.
type QueueStats struct {
	Total      int `json:"total"`
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Manager runs transcription jobs against the entity stores.
type Manager struct {
	files       *store.AudioFileStore
	transcripts *store.TranscriptStore

	// FailureHook decides whether a job fails; nil means every job
	// completes. Tests inject deterministic failures here.
	FailureHook func(models.AudioFile) bool

	workDuration time.Duration
	onChange     func()

	mu      sync.Mutex
	running map[int]struct{}
	wg      sync.WaitGroup
}

// NewManager creates a processing manager. workDuration is the simulated
// transcription time per file; pass 0 in tests.
func NewManager(files *store.AudioFileStore, transcripts *store.TranscriptStore, workDuration time.Duration) *Manager {
	return &Manager{
		files:        files,
		transcripts:  transcripts,
		workDuration: workDuration,
		running:      make(map[int]struct{}),
	}
}

// OnChange registers a callback invoked after every status change. The
// server uses it to push queue snapshots to websocket clients.
func (m *Manager) OnChange(fn func()) {
	m.onChange = fn
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}

// Enqueue starts the transcription job for a queued file. Enqueueing a
// file that is already running or not queued is a no-op so a poller-driven
// caller cannot double-start work.
func (m *Manager) Enqueue(ctx context.Context, fileID int) error {
	file, err := m.files.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if file.Status != models.StatusQueued {
		return nil
	}

	m.mu.Lock()
	if _, busy := m.running[fileID]; busy {
		m.mu.Unlock()
		return nil
	}
	m.running[fileID] = struct{}{}
	m.mu.Unlock()

	m.wg.Add(1)
	go m.runJob(file)
	return nil
}

// Wait blocks until all in-flight jobs finish. Used by tests and shutdown.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) runJob(file models.AudioFile) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		delete(m.running, file.ID)
		m.mu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Job %d] PANIC recovered: %v\n", file.ID, r)
			m.setStatus(file.ID, models.StatusFailed)
		}
	}()

	ctx := context.Background()

	if !m.setStatus(file.ID, models.StatusProcessing) {
		return // file was cancelled before the job started
	}
	fmt.Printf("[Job %d] Transcribing %s\n", file.ID, file.Name)

	if m.workDuration > 0 {
		time.Sleep(m.workDuration)
	}

	if m.FailureHook != nil && m.FailureHook(file) {
		fmt.Printf("[Job %d] Transcription failed\n", file.ID)
		m.setStatus(file.ID, models.StatusFailed)
		return
	}

	if _, err := m.transcripts.Create(ctx, store.NewTranscript{
		AudioFileID: file.ID,
		Speakers:    placeholderSpeakers(file),
	}); err != nil {
		fmt.Printf("[Job %d] ERROR creating transcript: %v\n", file.ID, err)
		m.setStatus(file.ID, models.StatusFailed)
		return
	}

	m.setStatus(file.ID, models.StatusCompleted)
	fmt.Printf("[Job %d] Completed\n", file.ID)
}

// setStatus applies a status transition and reports whether the file still
// exists. Notifies listeners on success.
func (m *Manager) setStatus(fileID int, status models.FileStatus) bool {
	_, err := m.files.Update(context.Background(), fileID, store.AudioFilePatch{Status: &status})
	if err != nil {
		return false
	}
	m.notify()
	return true
}

// Retry moves a failed file back to queued and restarts its job. Any other
// status is rejected.
func (m *Manager) Retry(ctx context.Context, fileID int) (models.AudioFile, error) {
	file, err := m.files.Get(ctx, fileID)
	if err != nil {
		return models.AudioFile{}, err
	}
	if file.Status != models.StatusFailed {
		return models.AudioFile{}, fmt.Errorf("%w: retry from %q", ErrInvalidTransition, file.Status)
	}

	queued := models.StatusQueued
	file, err = m.files.Update(ctx, fileID, store.AudioFilePatch{Status: &queued})
	if err != nil {
		return models.AudioFile{}, err
	}
	m.notify()
	if err := m.Enqueue(ctx, fileID); err != nil {
		return models.AudioFile{}, err
	}
	return file, nil
}

// Cancel removes a non-terminal file from the queue by deleting it.
// Completed and failed files are terminal and cannot be cancelled.
func (m *Manager) Cancel(ctx context.Context, fileID int) error {
	file, err := m.files.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if file.Status.Terminal() {
		return fmt.Errorf("%w: cancel from %q", ErrInvalidTransition, file.Status)
	}
	if _, err := m.files.Delete(ctx, fileID); err != nil {
		return err
	}
	m.notify()
	return nil
}

// Stats aggregates the queue by status.
func (m *Manager) Stats(ctx context.Context) (QueueStats, error) {
	files, err := m.files.List(ctx)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Total: len(files)}
	for _, f := range files {
		switch f.Status {
		case models.StatusQueued:
			stats.Queued++
		case models.StatusProcessing:
			stats.Processing++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// placeholderSpeakers fabricates a two-speaker transcript spanning the
// file's duration. Stands in for the transcription service output.
func placeholderSpeakers(file models.AudioFile) []models.Speaker {
	duration := file.Duration
	if duration <= 0 {
		duration = 60
	}
	half := duration / 2
	return []models.Speaker{
		{
			ID:   1,
			Name: "Speaker 1",
			Segments: []models.Segment{
				{StartTime: 0, EndTime: half, Text: fmt.Sprintf("Transcribed content for %s.", file.Name)},
			},
		},
		{
			ID:   2,
			Name: "Speaker 2",
			Segments: []models.Segment{
				{StartTime: half, EndTime: duration, Text: "Additional transcribed content."},
			},
		},
	}
}
