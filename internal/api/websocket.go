package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/transcripthub/backend/internal/models"
	"github.com/transcripthub/backend/internal/processing"
	"github.com/transcripthub/backend/internal/store"
)

// WebSocket message types for the queue feed protocol
const (
	// Client -> Server messages
	MsgTypePing = "ping"

	// Server -> Client messages
	MsgTypeConnected   = "connected"
	MsgTypeQueueUpdate = "queue:update"
	MsgTypePong        = "pong"
)

// WSMessage is the envelope for every queue feed frame.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// QueueSnapshot is the queue:update payload: every file with its status
// plus aggregate counters. Matches the GET /api/queue response so the
// client renders both the same way.
type QueueSnapshot struct {
	Items []models.AudioFile    `json:"items"`
	Stats processing.QueueStats `json:"stats"`
}

// feedClient is one connected monitoring view. Writes are serialized per
// client because broadcasts and pong replies race on the same connection.
type feedClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *feedClient) send(msg WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// QueueFeed pushes queue snapshots to websocket clients whenever the
// processing manager reports a status change. The client keeps its queue
// view live without polling.
type QueueFeed struct {
	files    *store.AudioFileStore
	queue    *processing.Manager
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*feedClient
}

// NewQueueFeed creates the queue feed hub and hooks it into the manager's
// change notifications.
func NewQueueFeed(files *store.AudioFileStore, queue *processing.Manager) *QueueFeed {
	feed := &QueueFeed{
		files: files,
		queue: queue,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		clients: make(map[string]*feedClient),
	}
	queue.OnChange(feed.Broadcast)
	return feed
}

// Snapshot builds the current queue state.
func (f *QueueFeed) Snapshot(ctx context.Context) (QueueSnapshot, error) {
	items, err := f.files.List(ctx)
	if err != nil {
		return QueueSnapshot{}, err
	}
	stats, err := f.queue.Stats(ctx)
	if err != nil {
		return QueueSnapshot{}, err
	}
	return QueueSnapshot{Items: items, Stats: stats}, nil
}

// Broadcast pushes the current snapshot to every connected client. Clients
// whose connection fails are dropped.
func (f *QueueFeed) Broadcast() {
	snap, err := f.Snapshot(context.Background())
	if err != nil {
		fmt.Printf("[QueueFeed] snapshot failed: %v\n", err)
		return
	}
	msg := WSMessage{
		Type:      MsgTypeQueueUpdate,
		Payload:   mustJSON(snap),
		Timestamp: time.Now().UnixMilli(),
	}

	f.mu.RLock()
	clients := make([]*feedClient, 0, len(f.clients))
	for _, c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			f.drop(c.id)
		}
	}
}

// ClientCount reports how many monitoring views are connected.
func (f *QueueFeed) ClientCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

func (f *QueueFeed) drop(id string) {
	f.mu.Lock()
	client, ok := f.clients[id]
	delete(f.clients, id)
	f.mu.Unlock()
	if ok {
		client.conn.Close()
	}
}

// HandleQueueFeed upgrades the connection and serves the feed until the
// client disconnects. The first frame is always a full snapshot.
func (f *QueueFeed) HandleQueueFeed(c echo.Context) error {
	ws, err := f.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &feedClient{id: uuid.New().String(), conn: ws}
	f.mu.Lock()
	f.clients[client.id] = client
	f.mu.Unlock()
	defer f.drop(client.id)

	fmt.Printf("[QueueFeed] Client %s connected\n", client.id[:8])

	client.send(WSMessage{Type: MsgTypeConnected, Timestamp: time.Now().UnixMilli()})

	if snap, err := f.Snapshot(c.Request().Context()); err == nil {
		client.send(WSMessage{
			Type:      MsgTypeQueueUpdate,
			Payload:   mustJSON(snap),
			Timestamp: time.Now().UnixMilli(),
		})
	}

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[QueueFeed] Connection error: %v\n", err)
			}
			break
		}
		if msg.Type == MsgTypePing {
			client.send(WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		}
	}

	fmt.Printf("[QueueFeed] Client %s disconnected\n", client.id[:8])
	return nil
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
