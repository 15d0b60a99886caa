package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/transcripthub/backend/internal/api"
	"github.com/transcripthub/backend/internal/catalog"
	"github.com/transcripthub/backend/internal/config"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/processing"
	"github.com/transcripthub/backend/internal/search"
	"github.com/transcripthub/backend/internal/settings"
	"github.com/transcripthub/backend/internal/store"
	"github.com/transcripthub/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Entity stores with the configured artificial latency
	delay := time.Duration(cfg.Processing.StoreLatencyMs) * time.Millisecond
	files := store.NewAudioFileStore(delay)
	folders := store.NewFolderStore(delay)
	transcripts := store.NewTranscriptStore(delay)
	cat := catalog.New(files, folders, transcripts)

	audio, err := store.NewBlobStore(cfg.Storage.AudioDirectory)
	if err != nil {
		fmt.Printf("Failed to initialize audio storage: %v\n", err)
		os.Exit(1)
	}

	settingsStore, err := settings.NewStore(cfg.Storage.SettingsFile)
	if err != nil {
		fmt.Printf("Failed to load settings: %v\n", err)
		os.Exit(1)
	}

	workDuration := time.Duration(cfg.Processing.WorkDurationSeconds) * time.Second
	queue := processing.NewManager(files, transcripts, workDuration)
	feed := api.NewQueueFeed(files, queue)
	api.RegisterQueueFeedMetrics(feed)

	engine := search.New(cat.SearchView())
	h := api.NewHandler(cat, engine, queue, settingsStore, audio)

	// Background poller: picks up queued files (manual re-queues, status
	// edits) and starts their jobs.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollInterval := time.Duration(cfg.Processing.QueuePollSeconds) * time.Second
	poller := processing.NewPoller(pollInterval, func(ctx context.Context) error {
		queued, err := files.List(ctx)
		if err != nil {
			return err
		}
		for _, f := range queued {
			if f.Status != models.StatusQueued {
				continue
			}
			if err := queue.Enqueue(ctx, f.ID); err != nil {
				return err
			}
		}
		return nil
	})
	go poller.Run(ctx)

	embeddedMode := web.HasEmbeddedUI()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" || path == "/metrics" ||
				strings.HasPrefix(path, "/api/queue")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	if cfg.Advanced.EnableCompression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: cfg.Advanced.CompressionLevel,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api/ws/")
			},
		}))
	}
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(api.MetricsMiddleware())

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h, feed)

	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded frontend from binary")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutS) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutS) * time.Second,
	}

	mode := "Development"
	if embeddedMode {
		mode = "Embedded UI"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           TranscriptHub Server                            ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.Storage.DataDirectory)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		<-ctx.Done()
		fmt.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		e.Shutdown(shutdownCtx)
		queue.Wait()
	}()

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}
