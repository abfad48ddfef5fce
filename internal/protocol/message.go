// Package protocol defines the JSON WebSocket protocol between the camarero
// server and its clients: a typed envelope plus the payload structs for every
// client command and server event.
package protocol

import (
	"encoding/json"
	"time"
)

// Message is the base WebSocket envelope. Data holds the payload for the
// given type, still encoded.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope stamped with the current time.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}
