package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/utils"
)

const (
	pingPeriod     = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	manager     *Manager
	jwtSecret   string
	broadcaster *WSBroadcaster
}

// NewServer starts the connection manager and wires the broadcaster into
// the event hub so handlers' notifications reach connected clients.
func NewServer(jwtSecret string, hub *events.Hub) *Server {
	manager := NewManager()
	broadcaster := NewWSBroadcaster(manager, logger.GetLogger())
	go manager.Run()

	if hub != nil {
		hub.AddBroadcaster(broadcaster)
	}

	return &Server{
		manager:     manager,
		jwtSecret:   jwtSecret,
		broadcaster: broadcaster,
	}
}

func (s *Server) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	claims, err := utils.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	client := &Client{
		ID:          claims.UserID,
		Username:    claims.Username,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     s.manager,
		LastActive:  time.Now(),
		ConnectedAt: time.Now(),
	}

	s.manager.Register(client)
	s.broadcaster.SendSystemMessage(client, "Connected to StudyTrack progress events")

	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) GetActiveUsers() []string {
	return s.manager.GetActiveUsers()
}

func (s *Server) Broadcaster() *WSBroadcaster {
	return s.broadcaster
}
