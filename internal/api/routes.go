// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, feed *QueueFeed) {
	h.queueFeed = feed

	// Health check and metrics
	e.GET("/api/health", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Audio file routes
	fileGroup := e.Group("/api/files")
	fileGroup.GET("", h.HandleListFiles)
	fileGroup.POST("/upload", h.HandleUploadFiles)
	fileGroup.GET("/:id", h.HandleGetFile)
	fileGroup.PUT("/:id", h.HandleUpdateFile)
	fileGroup.DELETE("/:id", h.HandleDeleteFile)

	// Raw audio payload for the player
	e.GET("/api/audio/:id", h.HandleGetAudio)

	// Folder routes
	folderGroup := e.Group("/api/folders")
	folderGroup.GET("", h.HandleListFolders)
	folderGroup.POST("", h.HandleCreateFolder)
	folderGroup.PUT("/:id", h.HandleUpdateFolder)
	folderGroup.DELETE("/:id", h.HandleDeleteFolder)
	folderGroup.GET("/:id/stats", h.HandleFolderStats)

	// Transcript routes
	transcriptGroup := e.Group("/api/transcripts")
	transcriptGroup.GET("/file/:fileId", h.HandleGetTranscriptForFile)
	transcriptGroup.GET("/:id", h.HandleGetTranscript)
	transcriptGroup.GET("/:id/msgpack", h.HandleGetTranscriptMsgpack)
	transcriptGroup.PUT("/:id/speakers", h.HandleUpdateSpeakers)
	transcriptGroup.GET("/:id/active-segment", h.HandleActiveSegment)
	transcriptGroup.GET("/:id/export", h.HandleExportTranscript)

	// Search
	e.GET("/api/search", h.HandleSearch)

	// Processing queue routes
	queueGroup := e.Group("/api/queue")
	queueGroup.GET("", h.HandleGetQueue)
	queueGroup.POST("/:id/retry", h.HandleRetryJob)
	queueGroup.DELETE("/:id", h.HandleCancelJob)

	// Live queue feed
	e.GET("/api/ws/queue", feed.HandleQueueFeed)

	// Settings
	e.GET("/api/settings", h.HandleGetSettings)
	e.PUT("/api/settings", h.HandleUpdateSettings)
}
