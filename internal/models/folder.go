package models

import "time"

// Folder groups audio files. ParentID is nil for root folders; the data
// model allows arbitrary nesting depth.
type Folder struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	ParentID  *int      `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FolderStats summarizes the processing state of a folder's files.
type FolderStats struct {
	Total      int `json:"total"`
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
