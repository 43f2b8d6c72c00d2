package models

import (
	"encoding/json"
	"time"
)

// Stream message types. Every frame on the wire carries one of these in
// its "type" field.
const (
	StreamTypeResult    = "result"
	StreamTypeAck       = "ack"
	StreamTypeHeartbeat = "heartbeat"
	StreamTypeError     = "error"
)

// Stream command actions accepted from clients.
const (
	StreamActionSubscribe   = "subscribe"
	StreamActionUnsubscribe = "unsubscribe"
)

// StreamCommand is a client-to-server frame.
type StreamCommand struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

// StreamMessage is a server-to-client frame.
type StreamMessage struct {
	Type    string          `json:"type"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SubscriptionAck confirms or rejects a subscribe/unsubscribe command.
type SubscriptionAck struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// Heartbeat is the periodic liveness frame broadcast to all clients.
type Heartbeat struct {
	At      time.Time `json:"at"`
	Clients int       `json:"clients"`
}
