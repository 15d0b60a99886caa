package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/processing"
)

// queueResponse is the monitoring view: every file with its status plus
// aggregate counters. The websocket feed pushes the same shape.
type queueResponse struct {
	Items []models.AudioFile    `json:"items"`
	Stats processing.QueueStats `json:"stats"`
}

func (h *Handler) queueSnapshot(c echo.Context) (queueResponse, error) {
	files, err := h.catalog.Files.List(c.Request().Context())
	if err != nil {
		return queueResponse{}, err
	}
	stats, err := h.queue.Stats(c.Request().Context())
	if err != nil {
		return queueResponse{}, err
	}
	return queueResponse{Items: files, Stats: stats}, nil
}

// HandleGetQueue returns the current queue snapshot.
func (h *Handler) HandleGetQueue(c echo.Context) error {
	snap, err := h.queueSnapshot(c)
	if err != nil {
		return fromDomainError(err, "queue", "")
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleRetryJob re-queues a failed file and restarts its job.
func (h *Handler) HandleRetryJob(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	file, err := h.queue.Retry(c.Request().Context(), id)
	if err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	return c.JSON(http.StatusOK, file)
}

// HandleCancelJob removes a non-terminal file from the queue. Completed
// and failed files are kept; cancelling them is rejected with 409.
func (h *Handler) HandleCancelJob(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.queue.Cancel(c.Request().Context(), id); err != nil {
		return fromDomainError(err, "audio file", c.Param("id"))
	}
	if err := h.audio.Remove(id); err != nil {
		fmt.Printf("[Queue] removing audio payload %d: %v\n", id, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"cancelled": true})
}
