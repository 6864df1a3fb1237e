package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"bioez-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "bioez_cluster_events"

// Hub fans workspace events out to every socket open on that workspace. With
// redis configured, events also reach sockets held by other instances.
type Hub struct {
	// workspace id -> open sockets (several tabs or devices)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	rdb      *redis.Client
	instance string

	logger logger.ILogger
}

type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeFrame renders the wire form of one pushed event.
func EncodeFrame(eventType string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Type: eventType, Data: raw})
}

type clusterMessage struct {
	Origin      string          `json:"origin"`
	WorkspaceID string          `json:"workspace_id"`
	Message     json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, instanceID string, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instance:   instanceID,
		logger:     log,
	}
}

// Run serves registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.WorkspaceID] = append(h.clients[client.WorkspaceID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"workspace_id": client.WorkspaceID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.WorkspaceID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.WorkspaceID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.WorkspaceID]) == 0 {
					delete(h.clients, client.WorkspaceID)
					h.logger.Info("Hub", "Workspace has no open sockets", map[string]interface{}{"workspace_id": client.WorkspaceID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// Connections reports how many sockets are open for a workspace on this instance.
func (h *Hub) Connections(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

// Send delivers one frame to the workspace's sockets here and, through redis,
// on the other instances.
func (h *Hub) Send(workspaceID, eventType string, data interface{}) {
	frame, err := EncodeFrame(eventType, data)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode frame", map[string]interface{}{"type": eventType, "error": err})
		return
	}

	h.deliver(workspaceID, frame)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{Origin: h.instance, WorkspaceID: workspaceID, Message: frame})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish to redis", map[string]interface{}{"error": err})
		}
	}
}

func (h *Hub) deliver(workspaceID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[workspaceID] {
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{"workspace_id": workspaceID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err})
				continue
			}
			if payload.Origin == h.instance {
				continue
			}
			h.deliver(payload.WorkspaceID, payload.Message)
		}
	}
}
