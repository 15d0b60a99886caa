package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/store"
)

// HandleListFiles returns all audio files, optionally filtered by folder.
// ?folderId= selects one folder; omitting it means "All Files".
func (h *Handler) HandleListFiles(c echo.Context) error {
	var folderID *int
	if raw := c.QueryParam("folderId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return NewBadRequestError("invalid folderId", err)
		}
		folderID = &id
	}

	files, err := h.catalog.FilesInFolder(c.Request().Context(), folderID)
	if err != nil {
		return fromDomainError(err, "folder", c.QueryParam("folderId"))
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file.
func (h *Handler) HandleGetFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	file, err := h.catalog.Files.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	return c.JSON(http.StatusOK, file)
}

// uploadResult reports one file of a batch upload.
type uploadResult struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// uploadResponse is the per-item batch report. One bad file does not abort
// the rest of the batch.
type uploadResponse struct {
	BatchID string             `json:"batchId"`
	Created []models.AudioFile `json:"created"`
	Failed  []uploadResult     `json:"failed,omitempty"`
}

// HandleUploadFiles accepts a multipart batch of audio files. Each file is
// stored, registered queued, and enqueued for transcription when
// auto-processing is enabled.
func (h *Handler) HandleUploadFiles(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("invalid multipart form", err)
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return NewValidationError("no files in upload")
	}

	var folderID *int
	if raw := c.FormValue("folderId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return NewBadRequestError("invalid folderId", err)
		}
		folderID = &id
	}
	if err := h.catalog.ValidateFolderRef(c.Request().Context(), folderID); err != nil {
		return fromDomainError(err, "folder", c.FormValue("folderId"))
	}

	resp := uploadResponse{BatchID: uuid.New().String()}
	autoProcess := h.settings.Get().AutoProcess

	for _, fh := range uploads {
		file, err := h.saveUpload(c, fh, folderID)
		if err != nil {
			resp.Failed = append(resp.Failed, uploadResult{Name: fh.Filename, Error: err.Error()})
			continue
		}
		if autoProcess {
			if err := h.queue.Enqueue(c.Request().Context(), file.ID); err != nil {
				fmt.Printf("[Upload %s] enqueue %d failed: %v\n", resp.BatchID[:8], file.ID, err)
			}
		}
		resp.Created = append(resp.Created, file)
	}

	status := http.StatusCreated
	if len(resp.Created) == 0 {
		status = http.StatusBadRequest
	}
	if len(resp.Created) > 0 {
		h.broadcastQueue()
	}
	return c.JSON(status, resp)
}

func (h *Handler) saveUpload(c echo.Context, fh *multipart.FileHeader, folderID *int) (models.AudioFile, error) {
	src, err := fh.Open()
	if err != nil {
		return models.AudioFile{}, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
	name := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	if strings.TrimSpace(name) == "" {
		return models.AudioFile{}, errors.New("empty file name")
	}

	file, err := h.catalog.Files.Create(c.Request().Context(), store.NewAudioFile{
		Name:         name,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Format:       strings.ToLower(ext),
		FolderID:     folderID,
	})
	if err != nil {
		return models.AudioFile{}, err
	}

	if _, err := h.audio.Save(file.ID, src); err != nil {
		// Roll the record back so a failed write leaves no orphan entry.
		h.catalog.Files.Delete(c.Request().Context(), file.ID)
		return models.AudioFile{}, err
	}
	return file, nil
}

// filePatchRequest is the JSON body for file updates.
type filePatchRequest struct {
	Name        *string            `json:"name"`
	Status      *models.FileStatus `json:"status"`
	Duration    *float64           `json:"duration"`
	FolderID    *int               `json:"folderId"`
	ClearFolder bool               `json:"clearFolder"`
}

// HandleUpdateFile applies a partial update: rename, move between folders,
// or a manual status transition.
func (h *Handler) HandleUpdateFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req filePatchRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return NewValidationError("name must not be empty")
	}
	if req.Status != nil && !req.Status.Valid() {
		return NewValidationError(fmt.Sprintf("unknown status %q", *req.Status))
	}
	if !req.ClearFolder {
		if err := h.catalog.ValidateFolderRef(c.Request().Context(), req.FolderID); err != nil {
			return fromDomainError(err, "folder", "")
		}
	}

	file, err := h.catalog.Files.Update(c.Request().Context(), id, store.AudioFilePatch{
		Name:        req.Name,
		Status:      req.Status,
		Duration:    req.Duration,
		FolderID:    req.FolderID,
		ClearFolder: req.ClearFolder,
	})
	if err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	return c.JSON(http.StatusOK, file)
}

// HandleDeleteFile removes a file, its transcript and its audio payload.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ok, err := h.catalog.DeleteFile(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	if !ok {
		return NewNotFoundError("audio file", c.Param("id"))
	}
	if err := h.audio.Remove(id); err != nil {
		fmt.Printf("[Files] removing audio payload %d: %v\n", id, err)
	}
	h.broadcastQueue()
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

// HandleGetAudio streams the raw audio payload for the native player.
func (h *Handler) HandleGetAudio(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.catalog.Files.Get(c.Request().Context(), id); err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	return c.File(h.audio.Path(id))
}
