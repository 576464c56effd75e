package websocket

import "time"

type MessageType string

const (
	MessageTypeEvent  MessageType = "event"
	MessageTypeSystem MessageType = "system"
)

// ServerMessage is the envelope for everything pushed to a client.
type ServerMessage struct {
	ID        string                 `json:"id,omitempty"`
	Type      MessageType            `json:"type"`
	Event     string                 `json:"event,omitempty"`
	Content   string                 `json:"content,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
