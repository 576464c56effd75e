package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/metrics"
)

type Type string

const (
	TypeProgressUpdate   Type = "progress_update"
	TypeSubjectUpdate    Type = "subject_update"
	TypeChapterCompleted Type = "chapter_completed"
	TypeTargetSet        Type = "target_set"
)

type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	UserID    string                 `json:"user_id"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func New(eventType Type, userID string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Broadcaster delivers an event to a connected user, if any.
type Broadcaster interface {
	BroadcastToUser(userID string, event Event)
}

// Hub fans events out from handlers to registered broadcasters. Publishing
// never blocks a request: events queue on a buffered channel and are dropped
// with a warning when the queue is full.
type Hub struct {
	logger       *logger.Logger
	events       chan Event
	done         chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
	broadcasters []Broadcaster
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
}

func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
	h.logger.Info("event_hub_started")
}

func (h *Hub) Stop() {
	close(h.done)
	h.wg.Wait()
	h.logger.Info("event_hub_stopped")
}

func (h *Hub) AddBroadcaster(b Broadcaster) {
	h.mu.Lock()
	h.broadcasters = append(h.broadcasters, b)
	h.mu.Unlock()
	h.logger.Info("broadcaster_registered")
}

func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
		h.logger.Debug("event_queued", "type", event.Type, "user_id", event.UserID)
	default:
		metrics.IncrementBroadcastFails()
		h.logger.Warn("event_channel_full", "type", event.Type, "user_id", event.UserID)
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case event := <-h.events:
			h.dispatch(event)
		}
	}
}

func (h *Hub) dispatch(event Event) {
	h.mu.RLock()
	broadcasters := h.broadcasters
	h.mu.RUnlock()

	for _, b := range broadcasters {
		b.BroadcastToUser(event.UserID, event)
	}
	metrics.IncrementBroadcasts()
	h.logger.Debug("event_dispatched",
		"event_id", event.ID,
		"type", event.Type,
		"broadcasters", len(broadcasters))
}

func (h *Hub) NotifyProgressUpdate(userID string, data map[string]interface{}) {
	h.Publish(New(TypeProgressUpdate, userID, data))
}

func (h *Hub) NotifySubjectUpdate(userID string, data map[string]interface{}) {
	h.Publish(New(TypeSubjectUpdate, userID, data))
}

func (h *Hub) NotifyChapterCompleted(userID string, data map[string]interface{}) {
	h.Publish(New(TypeChapterCompleted, userID, data))
}

func (h *Hub) NotifyTargetSet(userID string, data map[string]interface{}) {
	h.Publish(New(TypeTargetSet, userID, data))
}
