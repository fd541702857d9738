package websockets

import (
	"sync"
	"time"

	"elvalg/internal/logger"

	"github.com/google/uuid"
)

const sendBuffer = 32

const (
	EventLeadCreated        = "lead.created"
	EventContractRegistered = "contract.registered"
	EventReminderSent       = "reminder.sent"
)

// Conn is the part of a websocket connection the manager uses.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type client struct {
	conn Conn
	send chan Message
}

// Manager fans admin dashboard events out to every connected socket.
type Manager struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	log     logger.Logger
}

func New() *Manager {
	return &Manager{
		clients: make(map[*client]struct{}),
		log:     logger.New("websockets"),
	}
}

// HandleWebSocket serves one connection until the peer goes away or the
// manager is closed. Inbound messages are ignored.
func (m *Manager) HandleWebSocket(conn Conn) {
	log := m.log.Function("HandleWebSocket")

	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	if !m.register(c) {
		_ = conn.Close()
		return
	}
	log.Debug("Client connected", "clients", m.ClientCount())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for message := range c.send {
			if err := conn.WriteJSON(message); err != nil {
				log.Warn("failed to write message", "error", err)
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	m.unregister(c)
	<-writerDone
	_ = conn.Close()
	log.Debug("Client disconnected", "clients", m.ClientCount())
}

// Broadcast queues a message for every client. Clients whose buffer is full
// miss the message rather than stalling the caller.
func (m *Manager) Broadcast(messageType string, data any) {
	message := Message{
		ID:        uuid.NewString(),
		Type:      messageType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for c := range m.clients {
		select {
		case c.send <- message:
		default:
			m.log.Function("Broadcast").Warn("dropping message for slow client", "type", messageType)
		}
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for c := range m.clients {
		delete(m.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
	return nil
}

func (m *Manager) register(c *client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false
	}
	m.clients[c] = struct{}{}
	return true
}

func (m *Manager) unregister(c *client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c]; !ok {
		return
	}
	delete(m.clients, c)
	close(c.send)
}
