package models

import "time"

// FileStatus represents the processing status of an audio file.
type FileStatus string

const (
	StatusQueued     FileStatus = "queued"
	StatusProcessing FileStatus = "processing"
	StatusCompleted  FileStatus = "completed"
	StatusFailed     FileStatus = "failed"
)

// AllFileStatuses lists every valid status. Used by exhaustiveness checks
// and the queue stats aggregation.
var AllFileStatuses = []FileStatus{
	StatusQueued,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

// Valid reports whether s is a known status value.
func (s FileStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further automatic
// transitions. A failed file can still be re-queued manually.
func (s FileStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether the status machine allows moving from s
// to next: queued -> processing -> completed|failed, failed -> queued.
func (s FileStatus) CanTransitionTo(next FileStatus) bool {
	switch s {
	case StatusQueued:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		return next == StatusQueued
	}
	return false
}

// statusBadges maps each status to the badge variant the UI renders.
// Keyed on the closed enum so a new status fails the exhaustiveness test
// instead of silently falling through a string switch.
var statusBadges = map[FileStatus]string{
	StatusQueued:     "info",
	StatusProcessing: "warning",
	StatusCompleted:  "success",
	StatusFailed:     "error",
}

var statusIcons = map[FileStatus]string{
	StatusQueued:     "Clock",
	StatusProcessing: "Clock",
	StatusCompleted:  "CheckCircle",
	StatusFailed:     "XCircle",
}

// Badge returns the UI badge variant for the status.
func (s FileStatus) Badge() string {
	if b, ok := statusBadges[s]; ok {
		return b
	}
	return "default"
}

// Icon returns the UI icon name for the status.
func (s FileStatus) Icon() string {
	if i, ok := statusIcons[s]; ok {
		return i
	}
	return "FileAudio"
}

// AudioFile represents an uploaded audio recording and its processing state.
type AudioFile struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	OriginalName string     `json:"originalName"`
	Size         int64      `json:"size"`
	Duration     float64    `json:"duration"` // seconds
	Format       string     `json:"format"`
	UploadDate   time.Time  `json:"uploadDate"`
	Status       FileStatus `json:"status"`
	FolderID     *int       `json:"folderId,omitempty"`
}
