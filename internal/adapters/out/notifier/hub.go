package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"tutam/internal/core/domain/model/notification"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Outbound buffer per connected client.
	sendBufferSize = 64
)

// wirePayload is the JSON shape pushed over the websocket.
type wirePayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	DataType string `json:"data_type,omitempty"`
	DataID   string `json:"data_id"`
}

// Hub maintains the active websocket connections keyed by user and fans
// notifications out to them. A user with no open connection is silently
// skipped; the push channel covers offline receivers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger.With("component", "websocket_hub"),
	}
}

// Register attaches an upgraded connection for the given user and starts its
// pumps. An existing connection for the same user is replaced.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		hub:    h,
	}

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		close(old.send)
	}
	h.clients[userID] = c
	h.mu.Unlock()

	h.logger.Info("client connected", "user_id", userID, "connected", h.ClientCount())

	go c.writePump()
	go c.readPump()
}

// Deliver pushes the notification to the receiver's open connection, if any.
func (h *Hub) Deliver(_ context.Context, n *notification.Notification) error {
	h.mu.RLock()
	c, ok := h.clients[n.ReceiverID().String()]
	h.mu.RUnlock()

	if !ok {
		return nil
	}

	data, err := json.Marshal(wirePayload{
		ID:       n.ID().String(),
		Title:    n.Title(),
		Body:     n.Body(),
		DataType: n.DataType(),
		DataID:   n.DataID().String(),
	})
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
	default:
		// Buffer full means the peer stopped reading; drop the connection.
		h.unregister(c)
	}

	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if current, ok := h.clients[c.userID]; ok && current == c {
		delete(h.clients, c.userID)
		close(c.send)
	}
	h.mu.Unlock()

	h.logger.Info("client disconnected", "user_id", c.userID, "connected", h.ClientCount())
}

// client is one websocket connection with its outbound buffer.
type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// readPump discards inbound frames; the hub is push-only. It keeps the read
// side alive for pong handling and detects the peer going away.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump moves buffered messages to the connection and pings the peer.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
