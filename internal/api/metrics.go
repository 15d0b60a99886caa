package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics. The registered route pattern (/api/files/:id) is used as
// the path label so IDs do not blow up cardinality.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "th_http_requests_total",
			Help: "Total HTTP requests handled by the backend",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "th_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	queueFeedClients = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "th_queue_feed_clients",
			Help: "Connected queue feed websocket clients",
		},
		func() float64 { return float64(activeFeed.ClientCount()) },
	)

	// activeFeed backs the queue feed gauge; set once at startup.
	activeFeed clientCounter = noFeed{}
)

type clientCounter interface {
	ClientCount() int
}

type noFeed struct{}

func (noFeed) ClientCount() int { return 0 }

// RegisterQueueFeedMetrics points the client gauge at the live feed.
func RegisterQueueFeedMetrics(f *QueueFeed) {
	activeFeed = f
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if err != nil {
				if apiErr, ok := err.(*APIError); ok {
					status = apiErr.Status
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
