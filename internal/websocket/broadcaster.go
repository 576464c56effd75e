package websocket

import (
	"encoding/json"
	"time"

	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/metrics"
)

// WSBroadcaster delivers hub events to connected websocket clients. It
// satisfies events.Broadcaster.
type WSBroadcaster struct {
	manager *Manager
	logger  *logger.Logger
}

func NewWSBroadcaster(manager *Manager, log *logger.Logger) *WSBroadcaster {
	return &WSBroadcaster{
		manager: manager,
		logger:  log,
	}
}

func (wb *WSBroadcaster) BroadcastToUser(userID string, event events.Event) {
	client, ok := wb.manager.GetClient(userID)
	if !ok {
		wb.logger.Debug("ws_user_not_connected", "user_id", userID)
		return
	}

	msg := ServerMessage{
		ID:        event.ID,
		Type:      MessageTypeEvent,
		Event:     string(event.Type),
		Timestamp: event.Timestamp,
		Data:      event.Data,
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		wb.logger.Error("failed_to_marshal_event", "error", err.Error())
		metrics.IncrementBroadcastFails()
		return
	}

	select {
	case client.Send <- messageBytes:
		wb.logger.Debug("ws_event_broadcast", "user_id", userID, "event_type", event.Type)
	default:
		metrics.IncrementBroadcastFails()
		wb.logger.Warn("ws_send_channel_full", "user_id", userID)
	}
}

// SendSystemMessage pushes free-form system text straight onto a client's
// send queue. The client does not need to be registered yet, which makes
// this usable for the connect notice before the pumps start.
func (wb *WSBroadcaster) SendSystemMessage(client *Client, content string) {
	msg := ServerMessage{
		Type:      MessageTypeSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// SendSystemBroadcast delivers system text to every connected client.
func (wb *WSBroadcaster) SendSystemBroadcast(content string) {
	msg := ServerMessage{
		Type:      MessageTypeSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
	if data, err := json.Marshal(msg); err == nil {
		wb.manager.BroadcastMessage(data)
	}
}
