package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages exchanged with clients
type MessageType string

const (
	MessageTypeSelect    MessageType = "select"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ErrorPayload is the payload of a MessageTypeError message.
type ErrorPayload struct {
	Error string `json:"error"`
}
