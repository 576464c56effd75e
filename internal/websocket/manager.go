package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/metrics"
)

type Client struct {
	ID          string
	Username    string
	Conn        *websocket.Conn
	Send        chan []byte
	Manager     *Manager
	LastActive  time.Time
	ConnectedAt time.Time
	mu          sync.Mutex
}

type Manager struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			metrics.SetActiveConnections(int64(len(m.clients)))
			m.mu.Unlock()

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client.ID]; ok {
				delete(m.clients, client.ID)
				close(client.Send)
			}
			metrics.SetActiveConnections(int64(len(m.clients)))
			m.mu.Unlock()

		case message := <-m.broadcast:
			// Stalled clients (full send queue) are dropped; the map is
			// mutated here, so this takes the write lock.
			m.mu.Lock()
			for id, client := range m.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(m.clients, id)
				}
			}
			metrics.SetActiveConnections(int64(len(m.clients)))
			m.mu.Unlock()
		}
	}
}

// Register queues a client for registration with the run loop.
func (m *Manager) Register(client *Client) {
	m.register <- client
}

func (m *Manager) GetClient(userID string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[userID]
	return client, ok
}

func (m *Manager) GetActiveUsers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]string, 0, len(m.clients))
	for id := range m.clients {
		users = append(users, id)
	}
	return users
}

func (m *Manager) GetClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) BroadcastMessage(message []byte) {
	m.broadcast <- message
}

func (m *Manager) SendToUser(userID string, message []byte) bool {
	m.mu.RLock()
	client, ok := m.clients[userID]
	m.mu.RUnlock()

	if !ok {
		return false
	}

	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// ReadPump drains the connection. Clients only receive on this channel;
// anything they send is discarded, but the pump keeps pong handling and
// deadlines alive.
func (c *Client) ReadPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.UpdateActivity()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error", map[string]interface{}{"error": err.Error(), "client_id": c.ID})
			}
			break
		}
		c.UpdateActivity()
	}
}

func (c *Client) UpdateActivity() {
	c.mu.Lock()
	c.LastActive = time.Now()
	c.mu.Unlock()
}

func (c *Client) GetLastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LastActive
}

func (c *Client) WritePump() {
	defer c.Conn.Close()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
