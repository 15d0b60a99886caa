package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transcripthub/backend/internal/catalog"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/processing"
	"github.com/transcripthub/backend/internal/search"
	"github.com/transcripthub/backend/internal/settings"
	"github.com/transcripthub/backend/internal/store"
)

// newTestHandler wires a handler over zero-latency stores.
func newTestHandler(t *testing.T) (*echo.Echo, *Handler) {
	t.Helper()

	files := store.NewAudioFileStore(0)
	folders := store.NewFolderStore(0)
	transcripts := store.NewTranscriptStore(0)
	cat := catalog.New(files, folders, transcripts)

	st, err := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	audio, err := store.NewBlobStore(t.TempDir())
	require.NoError(t, err)

	queue := processing.NewManager(files, transcripts, 0)
	h := NewHandler(cat, search.New(cat.SearchView()), queue, st, audio)
	return echo.New(), h
}

func TestFileHandlers(t *testing.T) {
	e, h := newTestHandler(t)

	// 1. Upload a batch of two files
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("files", "standup.mp3")
	part.Write([]byte("audio-bytes-one"))
	part, _ = writer.CreateFormFile("files", "retro.wav")
	part.Write([]byte("audio-bytes-two"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleUploadFiles(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"standup"`)
		assert.Contains(t, rec.Body.String(), `"originalName":"retro.wav"`)
		assert.Contains(t, rec.Body.String(), `"batchId"`)
	}
	h.queue.Wait() // auto-process is on by default

	// 2. List all files
	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleListFiles(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		var files []models.AudioFile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
		assert.Len(t, files, 2)
	}

	// 3. Rename file 1
	req = httptest.NewRequest(http.MethodPut, "/api/files/1",
		bytes.NewBufferString(`{"name":"daily standup"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleUpdateFile(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"daily standup"`)
	}

	// 4. Delete file 1 and its transcript
	req = httptest.NewRequest(http.MethodDelete, "/api/files/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleDeleteFile(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// 5. Getting the deleted file is a 404
	req = httptest.NewRequest(http.MethodGet, "/api/files/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.HandleGetFile(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	}
}

func TestUploadRejectsUnknownFolder(t *testing.T) {
	e, h := newTestHandler(t)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	writer.WriteField("folderId", "42")
	part, _ := writer.CreateFormFile("files", "a.mp3")
	part.Write([]byte("x"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleUploadFiles(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	}
}

func TestFolderHandlers(t *testing.T) {
	e, h := newTestHandler(t)

	// 1. Create a folder
	req := httptest.NewRequest(http.MethodPost, "/api/folders",
		bytes.NewBufferString(`{"name":"Meetings"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleCreateFolder(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Meetings"`)
	}

	// 2. Blank name is rejected before any store call
	req = httptest.NewRequest(http.MethodPost, "/api/folders",
		bytes.NewBufferString(`{"name":"   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err := h.HandleCreateFolder(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	}

	// 3. A folder with files cannot be deleted
	folderID := 1
	h.catalog.Files.Seed([]models.AudioFile{
		{ID: 1, Name: "kept", Status: models.StatusCompleted, FolderID: &folderID},
	})
	req = httptest.NewRequest(http.MethodDelete, "/api/folders/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err = h.HandleDeleteFolder(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, apiErr.Status)
	}

	// 4. Folder stats count by status
	req = httptest.NewRequest(http.MethodGet, "/api/folders/1/stats", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleFolderStats(c)) {
		assert.Contains(t, rec.Body.String(), `"total":1`)
		assert.Contains(t, rec.Body.String(), `"completed":1`)
	}

	// 5. Once empty, deletion succeeds
	h.catalog.Files.Seed(nil)
	req = httptest.NewRequest(http.MethodDelete, "/api/folders/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleDeleteFolder(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func seedTranscript(h *Handler) {
	h.catalog.Files.Seed([]models.AudioFile{
		{ID: 1, Name: "standup", Status: models.StatusCompleted, Duration: 20, UploadDate: time.Now()},
	})
	h.catalog.Transcripts.Seed([]models.Transcript{
		{
			ID:          1,
			AudioFileID: 1,
			Speakers: []models.Speaker{
				{ID: 1, Name: "A", Segments: []models.Segment{
					{StartTime: 0, EndTime: 10, Text: "hi"},
				}},
				{ID: 2, Name: "B", Segments: []models.Segment{
					{StartTime: 10, EndTime: 20, Text: "project deadline moved"},
				}},
			},
		},
	})
}

func TestTranscriptHandlers(t *testing.T) {
	e, h := newTestHandler(t)
	seedTranscript(h)

	// 1. Resolve transcript by file
	req := httptest.NewRequest(http.MethodGet, "/api/transcripts/file/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("fileId")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleGetTranscriptForFile(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"audioFileId":1`)
	}

	// 2. Rename speaker A via full-list replacement
	payload := `{"speakers":[
		{"id":1,"name":"Alice","segments":[{"startTime":0,"endTime":10,"text":"hi"}]},
		{"id":2,"name":"B","segments":[{"startTime":10,"endTime":20,"text":"project deadline moved"}]}
	]}`
	req = httptest.NewRequest(http.MethodPut, "/api/transcripts/1/speakers",
		bytes.NewBufferString(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleUpdateSpeakers(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Alice"`)
	}

	// 3. Active segment at the 10s boundary belongs to the later segment
	req = httptest.NewRequest(http.MethodGet, "/api/transcripts/1/active-segment?t=10", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleActiveSegment(c)) {
		assert.Contains(t, rec.Body.String(), `"speakerName":"B"`)
	}

	// 4. Past the end there is no active segment
	req = httptest.NewRequest(http.MethodGet, "/api/transcripts/1/active-segment?t=99", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleActiveSegment(c)) {
		assert.Contains(t, rec.Body.String(), `"active":null`)
	}
}

func TestExportHandler(t *testing.T) {
	e, h := newTestHandler(t)
	seedTranscript(h)

	// Default format comes from settings (txt)
	req := httptest.NewRequest(http.MethodGet, "/api/transcripts/1/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleExportTranscript(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[A] hi\n\n[B] project deadline moved", rec.Body.String())
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "standup_transcript.txt")
	}

	// pdf selects the timestamped layout, still plain text
	req = httptest.NewRequest(http.MethodGet, "/api/transcripts/1/export?format=pdf", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleExportTranscript(c)) {
		assert.Contains(t, rec.Body.String(), "Transcript: standup")
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/plain")
	}

	// Unknown tag is rejected
	req = httptest.NewRequest(http.MethodGet, "/api/transcripts/1/export?format=odt", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	err := h.HandleExportTranscript(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	}
}

func TestSearchHandler(t *testing.T) {
	e, h := newTestHandler(t)
	seedTranscript(h)

	// 1. Blank query means "no search ran"
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleSearch(c)) {
		assert.Contains(t, rec.Body.String(), `"searched":false`)
	}

	// 2. A match carries its highlight spans
	req = httptest.NewRequest(http.MethodGet, "/api/search?q=deadline", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleSearch(c)) {
		assert.Contains(t, rec.Body.String(), `"searched":true`)
		assert.Contains(t, rec.Body.String(), `"text":"project deadline moved"`)
		assert.Contains(t, rec.Body.String(), `"spans"`)
	}

	// 3. No hits is still a searched response
	req = httptest.NewRequest(http.MethodGet, "/api/search?q=zzz-not-there", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleSearch(c)) {
		assert.Contains(t, rec.Body.String(), `"searched":true`)
		assert.Contains(t, rec.Body.String(), `"results":[]`)
	}
}

func TestQueueHandlers(t *testing.T) {
	e, h := newTestHandler(t)
	h.catalog.Files.Seed([]models.AudioFile{
		{ID: 1, Name: "broken", Status: models.StatusFailed},
		{ID: 2, Name: "done", Status: models.StatusCompleted},
		{ID: 3, Name: "waiting", Status: models.StatusQueued},
	})

	// 1. Snapshot includes items and counters
	req := httptest.NewRequest(http.MethodGet, "/api/queue", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleGetQueue(c)) {
		assert.Contains(t, rec.Body.String(), `"total":3`)
		assert.Contains(t, rec.Body.String(), `"failed":1`)
	}

	// 2. Retry restarts the failed file
	req = httptest.NewRequest(http.MethodPost, "/api/queue/1/retry", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if assert.NoError(t, h.HandleRetryJob(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	h.queue.Wait()
	file, err := h.catalog.Files.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, file.Status)

	// 3. Retrying a completed file is rejected
	req = httptest.NewRequest(http.MethodPost, "/api/queue/2/retry", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	err = h.HandleRetryJob(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, apiErr.Status)
	}

	// 4. Cancel removes the queued file
	req = httptest.NewRequest(http.MethodDelete, "/api/queue/3", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("3")
	if assert.NoError(t, h.HandleCancelJob(c)) {
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	_, err = h.catalog.Files.Get(context.Background(), 3)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// 5. Cancel of a terminal file is rejected
	req = httptest.NewRequest(http.MethodDelete, "/api/queue/2", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")
	err = h.HandleCancelJob(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, apiErr.Status)
	}
}

func TestSettingsHandlers(t *testing.T) {
	e, h := newTestHandler(t)

	// 1. Defaults come back before any save
	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if assert.NoError(t, h.HandleGetSettings(c)) {
		assert.Contains(t, rec.Body.String(), `"theme":"light"`)
		assert.Contains(t, rec.Body.String(), `"exportFormat":"txt"`)
	}

	// 2. A full valid document replaces the settings
	next := settings.Defaults()
	next.Theme = "dark"
	next.FontSize = 16
	body, _ := json.Marshal(next)
	req = httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBuffer(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if assert.NoError(t, h.HandleUpdateSettings(c)) {
		assert.Contains(t, rec.Body.String(), `"theme":"dark"`)
	}
	assert.Equal(t, "dark", h.settings.Get().Theme)

	// 3. An invalid document is rejected and nothing changes
	next.Theme = "solarized"
	body, _ = json.Marshal(next)
	req = httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewBuffer(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	err := h.HandleUpdateSettings(c)
	if apiErr, ok := err.(*APIError); assert.True(t, ok) {
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	}
	assert.Equal(t, "dark", h.settings.Get().Theme)
}
