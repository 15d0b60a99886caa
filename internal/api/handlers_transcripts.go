package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/export"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/playback"
	"github.com/transcripthub/backend/internal/store"
	"github.com/vmihailenco/msgpack/v5"
)

// HandleGetTranscript returns a transcript by its own ID.
func (h *Handler) HandleGetTranscript(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.catalog.Transcripts.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("id"))
	}
	return c.JSON(http.StatusOK, t)
}

// HandleGetTranscriptForFile resolves the transcript owned by a file.
func (h *Handler) HandleGetTranscriptForFile(c echo.Context) error {
	fileID, err := pathID(c, "fileId")
	if err != nil {
		return err
	}
	if _, err := h.catalog.Files.Get(c.Request().Context(), fileID); err != nil {
		return fromDomainError(err, "audio file", c.Param("fileId"))
	}
	t, err := h.catalog.TranscriptForFile(c.Request().Context(), fileID)
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("fileId"))
	}
	return c.JSON(http.StatusOK, t)
}

// HandleGetTranscriptMsgpack returns the transcript msgpack-encoded, a
// compact alternative the viewer uses for very large transcripts.
func (h *Handler) HandleGetTranscriptMsgpack(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.catalog.Transcripts.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("id"))
	}
	data, err := msgpack.Marshal(t)
	if err != nil {
		return NewInternalError("failed to encode transcript", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// speakersRequest is the JSON body for a speaker-list replacement.
type speakersRequest struct {
	Speakers []models.Speaker `json:"speakers"`
}

// HandleUpdateSpeakers replaces a transcript's full speaker list. Renaming
// one speaker goes through here: the client submits the whole list with the
// new name in place.
func (h *Handler) HandleUpdateSpeakers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req speakersRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Speakers == nil {
		return NewValidationError("speakers list is required")
	}
	for _, sp := range req.Speakers {
		if strings.TrimSpace(sp.Name) == "" {
			return NewValidationError("speaker name must not be empty")
		}
	}

	t, err := h.catalog.Transcripts.Update(c.Request().Context(), id, store.TranscriptPatch{
		Speakers: req.Speakers,
	})
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("id"))
	}
	return c.JSON(http.StatusOK, t)
}

// HandleActiveSegment resolves the active segment for a playback position.
// The viewer polls this when it does not track segments client-side.
func (h *Handler) HandleActiveSegment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	raw := c.QueryParam("t")
	currentTime, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return NewBadRequestError("invalid position t", err)
	}

	t, err := h.catalog.Transcripts.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("id"))
	}

	active, found := playback.Resolve(t, currentTime)
	if !found {
		// A gap between segments: valid, no active speaker.
		return c.JSON(http.StatusOK, map[string]any{"active": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"active": active})
}

// HandleExportTranscript renders the transcript for download. Content is
// plain text for every format tag; pdf and docx only select the
// timestamped layout and the filename extension.
func (h *Handler) HandleExportTranscript(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	format := export.Format(c.QueryParam("format"))
	if format == "" {
		format = export.Format(h.settings.Get().ExportFormat)
	}
	if !format.Valid() {
		return NewValidationError(fmt.Sprintf("unsupported export format %q", format))
	}

	t, err := h.catalog.Transcripts.Get(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "transcript", c.Param("id"))
	}
	file, err := h.catalog.Files.Get(c.Request().Context(), t.AudioFileID)
	if err != nil {
		return fromDomainError(err, "audio file", strconv.Itoa(t.AudioFileID))
	}

	doc, err := export.Render(t, file.Name, format)
	if err != nil {
		return NewInternalError("failed to render export", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Content)
}
