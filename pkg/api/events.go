package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/shuu880/slack-log-viewer/internal/log"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// the dashboard is served from the same process; any origin is fine
		return true
	},
}

// EventType defines the type of event pushed to dashboard clients
type EventType string

const (
	// EventReload tells clients the archive snapshot was replaced and
	// their current view may be stale
	EventReload EventType = "reload"

	// EventPong answers a client ping
	EventPong EventType = "pong"
)

// Event represents a message pushed to dashboard clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// clientMessage is the only shape clients send: keepalive pings
type clientMessage struct {
	Type string `json:"type"`
}

// EventClient represents one dashboard WebSocket connection
type EventClient struct {
	ID   string
	conn *websocket.Conn
	send chan Event
	hub  *EventHub
}

// EventHub manages dashboard connections and fans events out to them
type EventHub struct {
	clients    map[string]*EventClient
	broadcast  chan Event
	register   chan *EventClient
	unregister chan *EventClient
	mu         sync.RWMutex
}

// NewEventHub creates a new EventHub instance
func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[string]*EventClient),
		broadcast:  make(chan Event),
		register:   make(chan *EventClient),
		unregister: make(chan *EventClient),
	}
}

// Run starts the hub's main loop
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Close all client connections
			h.mu.Lock()
			for _, client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[string]*EventClient)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Debug().Str("client", client.ID).Msg("dashboard client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Debug().Str("client", client.ID).Msg("dashboard client disconnected")

		case event := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- event:
				default:
					// client is not draining its queue, drop it
					close(client.send)
					delete(h.clients, id)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected client. It blocks until
// the hub's loop picks the event up, so the hub must be running.
func (h *EventHub) Broadcast(event Event) {
	h.broadcast <- event
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS handles WebSocket requests from dashboard clients
func (h *EventHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &EventClient{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan Event, 16),
		hub:  h,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection. Dashboard clients only listen, so the
// read side exists to notice closed connections and answer pings.
func (c *EventClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Str("client", c.ID).Msg("websocket read error")
			}
			break
		}
		if msg.Type == "ping" {
			select {
			case c.send <- Event{Type: EventPong, Timestamp: time.Now().UTC()}:
			default:
			}
		}
	}
}

// writePump writes events to the WebSocket connection
func (c *EventClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
