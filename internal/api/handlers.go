package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/catalog"
	"github.com/transcripthub/backend/internal/processing"
	"github.com/transcripthub/backend/internal/search"
	"github.com/transcripthub/backend/internal/settings"
	"github.com/transcripthub/backend/internal/store"
)

// Handler handles API requests.
type Handler struct {
	catalog   *catalog.Catalog
	engine    *search.Engine
	queue     *processing.Manager
	settings  *settings.Store
	audio     *store.BlobStore
	queueFeed *QueueFeed
}

// NewHandler creates a new API handler.
func NewHandler(cat *catalog.Catalog, engine *search.Engine, queue *processing.Manager, st *settings.Store, audio *store.BlobStore) *Handler {
	return &Handler{
		catalog:  cat,
		engine:   engine,
		queue:    queue,
		settings: st,
		audio:    audio,
	}
}

// broadcastQueue pushes a fresh queue snapshot to websocket clients after
// mutations the processing manager does not observe, like uploads and
// file deletions. No-op when no feed is attached (tests).
func (h *Handler) broadcastQueue() {
	if h.queueFeed != nil {
		h.queueFeed.Broadcast()
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// pathID parses the :id (or named) integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, NewBadRequestError("invalid id", err)
	}
	return id, nil
}
