package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"todo-back/pkg/logger"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	broadcastBuffer = 64
	// clientQueueSize is how many messages a client may lag behind before it is dropped
	clientQueueSize = 32
)

type client struct {
	id   uuid.UUID
	conn Conn
	send chan Message
}

// Manager owns the set of connected board clients. All mutations of the set
// go through the run loop; the mutex only guards reads from other goroutines.
// Each client has its own queue and writer goroutine, so a client that stops
// reading is evicted instead of stalling the others.
type Manager struct {
	clients    map[uuid.UUID]*client
	register   chan *client
	unregister chan uuid.UUID
	broadcast  chan Message
	mutex      sync.RWMutex
	done       chan struct{}
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[uuid.UUID]*client),
		register:   make(chan *client),
		unregister: make(chan uuid.UUID),
		broadcast:  make(chan Message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			m.mutex.RLock()
			ids := make([]uuid.UUID, 0, len(m.clients))
			for id := range m.clients {
				ids = append(ids, id)
			}
			m.mutex.RUnlock()
			for _, id := range ids {
				m.remove(id)
			}
			return

		case c := <-m.register:
			m.mutex.Lock()
			m.clients[c.id] = c
			total := len(m.clients)
			m.mutex.Unlock()
			go m.writePump(c)
			logger.Info("WebSocket client connected", "client_id", c.id, "clients", total)

		case id := <-m.unregister:
			m.remove(id)

		case msg := <-m.broadcast:
			m.mutex.RLock()
			var slow []uuid.UUID
			for id, c := range m.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, id)
				}
			}
			m.mutex.RUnlock()
			for _, id := range slow {
				logger.Warn("WebSocket client too slow, dropping it", "client_id", id)
				m.remove(id)
			}
		}
	}
}

// writePump is the only writer of hub messages to one client.
func (m *Manager) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			logger.Warn("WebSocket send failed", "client_id", c.id, "error", err)
			m.UnregisterClient(c.id)
			// drain until remove closes the queue
			for range c.send {
			}
			return
		}
	}
}

// remove runs on the Run goroutine only, which is also the only sender on c.send.
func (m *Manager) remove(id uuid.UUID) {
	m.mutex.Lock()
	c, ok := m.clients[id]
	if ok {
		delete(m.clients, id)
	}
	m.mutex.Unlock()
	if !ok {
		return
	}
	close(c.send)
	_ = c.conn.Close()
	logger.Info("WebSocket client disconnected", "client_id", id)
}

// Done is closed once Run has returned.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

func (m *Manager) RegisterClient(conn Conn) uuid.UUID {
	c := &client{id: uuid.New(), conn: conn, send: make(chan Message, clientQueueSize)}
	select {
	case m.register <- c:
	case <-m.done:
	}
	return c.id
}

func (m *Manager) UnregisterClient(id uuid.UUID) {
	select {
	case m.unregister <- id:
	case <-m.done:
	}
}

// BroadcastToAll never blocks: when the hub is backed up the message is dropped.
func (m *Manager) BroadcastToAll(messageType string, data interface{}) {
	select {
	case m.broadcast <- Message{Type: messageType, Data: data}:
	case <-m.done:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping message", "type", messageType)
	}
}

func (m *Manager) GetTotalClients() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// HandleClientMessage answers the small set of messages a board client may send.
func HandleClientMessage(conn Conn, data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		logger.Debug("Ignoring malformed WebSocket message", "error", err)
		return
	}

	switch message.Type {
	case "ping":
		_ = conn.WriteJSON(Message{Type: "pong", Data: "pong"})
	default:
		logger.Debug("Unknown WebSocket message type", "type", message.Type)
	}
}

// lockedConn serializes writes; the hub and the read loop both write to a client.
type lockedConn struct {
	mu   sync.Mutex
	conn Conn
}

func NewLockedConn(conn Conn) Conn {
	return &lockedConn{conn: conn}
}

func (c *lockedConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close does not take the write lock so it can unblock a stuck write.
func (c *lockedConn) Close() error {
	return c.conn.Close()
}
