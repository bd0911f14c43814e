// Package protocol defines the WebSocket messages exchanged with live
// monitor clients.
package protocol

import "iorec/internal/event"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeEvent carries one persisted input event
	TypeEvent MessageType = "event"

	// TypeStatus carries the current recording status
	TypeStatus MessageType = "status"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventPayload is the payload for TypeEvent
type EventPayload struct {
	Timestamp float64 `json:"timestamp"`
	Kind      string  `json:"type"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Token     string  `json:"token,omitempty"`
	Pressed   bool    `json:"pressed"`
}

// StatusPayload is the payload for TypeStatus
type StatusPayload struct {
	Recording bool   `json:"recording"`
	Session   string `json:"session,omitempty"`
	Events    int    `json:"events"`
}

// NewEventMessage wraps a persisted event for broadcast.
func NewEventMessage(ev event.Event) Message {
	return Message{
		Type: TypeEvent,
		Payload: EventPayload{
			Timestamp: ev.Timestamp,
			Kind:      ev.Kind.String(),
			X:         ev.X,
			Y:         ev.Y,
			Token:     ev.Token,
			Pressed:   ev.Pressed,
		},
	}
}

// NewStatusMessage wraps the recording status for broadcast.
func NewStatusMessage(st StatusPayload) Message {
	return Message{Type: TypeStatus, Payload: st}
}
