// Package catalog maintains the folder/file/transcript relationships on top
// of the entity stores. Mutations that could break a reference are validated
// here, before any store call, rather than at each call site.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/store"
)

// ErrFolderNotEmpty rejects deletion of a folder that still contains files.
var ErrFolderNotEmpty = errors.New("catalog: folder contains files")

// ErrFolderNotFound rejects a file create/move referencing an absent folder.
var ErrFolderNotFound = errors.New("catalog: folder does not exist")

// Catalog composes the three entity stores.
type Catalog struct {
	Files       *store.AudioFileStore
	Folders     *store.FolderStore
	Transcripts *store.TranscriptStore
}

// New creates a catalog over the given stores.
func New(files *store.AudioFileStore, folders *store.FolderStore, transcripts *store.TranscriptStore) *Catalog {
	return &Catalog{Files: files, Folders: folders, Transcripts: transcripts}
}

// SearchView adapts the catalog to the read-only shape the search engine
// scans. The store fields and the view methods would otherwise collide on
// their names.
type SearchView struct {
	c *Catalog
}

// SearchView returns the catalog's search-facing read view.
func (c *Catalog) SearchView() SearchView { return SearchView{c: c} }

func (v SearchView) Transcripts(ctx context.Context) ([]models.Transcript, error) {
	return v.c.Transcripts.List(ctx)
}

func (v SearchView) AudioFiles(ctx context.Context) ([]models.AudioFile, error) {
	return v.c.Files.List(ctx)
}

func (v SearchView) Folders(ctx context.Context) ([]models.Folder, error) {
	return v.c.Folders.List(ctx)
}

// ValidateFolderRef checks that folderID, when set, names an existing folder.
func (c *Catalog) ValidateFolderRef(ctx context.Context, folderID *int) error {
	if folderID == nil {
		return nil
	}
	if _, err := c.Folders.Get(ctx, *folderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrFolderNotFound, *folderID)
		}
		return err
	}
	return nil
}

// FilesInFolder returns files filtered by folder reference. A nil folderID
// means "All Files": no filter is applied.
func (c *Catalog) FilesInFolder(ctx context.Context, folderID *int) ([]models.AudioFile, error) {
	files, err := c.Files.List(ctx)
	if err != nil {
		return nil, err
	}
	if folderID == nil {
		return files, nil
	}
	filtered := make([]models.AudioFile, 0, len(files))
	for _, f := range files {
		if f.FolderID != nil && *f.FolderID == *folderID {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// DeleteFolder removes a folder after verifying it contains no files.
// The rejection is surfaced to the user, never a silent no-op.
func (c *Catalog) DeleteFolder(ctx context.Context, id int) (bool, error) {
	files, err := c.FilesInFolder(ctx, &id)
	if err != nil {
		return false, err
	}
	if len(files) > 0 {
		return false, fmt.Errorf("%w: %d file(s)", ErrFolderNotEmpty, len(files))
	}
	return c.Folders.Delete(ctx, id)
}

// ChildFolders returns the folders whose parent reference equals parentID.
// A nil parentID selects the root folders.
func (c *Catalog) ChildFolders(ctx context.Context, parentID *int) ([]models.Folder, error) {
	folders, err := c.Folders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Folder, 0, len(folders))
	for _, f := range folders {
		switch {
		case parentID == nil && f.ParentID == nil:
			out = append(out, f)
		case parentID != nil && f.ParentID != nil && *f.ParentID == *parentID:
			out = append(out, f)
		}
	}
	return out, nil
}

// TranscriptForFile resolves the transcript owned by an audio file. The
// association is 1:1, looked up by matching AudioFileID.
func (c *Catalog) TranscriptForFile(ctx context.Context, fileID int) (models.Transcript, error) {
	transcripts, err := c.Transcripts.List(ctx)
	if err != nil {
		return models.Transcript{}, err
	}
	for _, t := range transcripts {
		if t.AudioFileID == fileID {
			return t, nil
		}
	}
	return models.Transcript{}, store.ErrNotFound
}

// DeleteFile removes an audio file and, when one exists, its transcript.
// File deletion is never blocked; only folder deletion has a precondition.
func (c *Catalog) DeleteFile(ctx context.Context, id int) (bool, error) {
	ok, err := c.Files.Delete(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	if t, err := c.TranscriptForFile(ctx, id); err == nil {
		if _, err := c.Transcripts.Delete(ctx, t.ID); err != nil {
			return true, err
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return true, err
	}
	return true, nil
}

// FolderStats counts a folder's files per processing status.
func (c *Catalog) FolderStats(ctx context.Context, folderID int) (models.FolderStats, error) {
	files, err := c.FilesInFolder(ctx, &folderID)
	if err != nil {
		return models.FolderStats{}, err
	}
	stats := models.FolderStats{Total: len(files)}
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
