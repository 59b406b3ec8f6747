package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/airiq/mockfeed/internal/scatter"
)

// MessageType represents the type of message
type MessageType string

const (
	// Client to Server
	MsgTypeSubscribe MessageType = "subscribe"
	MsgTypeKeepalive MessageType = "keepalive"

	// Server to Client
	MsgTypeAck      MessageType = "ack"
	MsgTypeSnapshot MessageType = "snapshot"
	MsgTypeUpdate   MessageType = "update"
)

// BaseMessage is the common structure for all messages
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// SubscribeMessage is sent by the client on connection. RegionKey is
// optional; when set, the client only receives records for that region.
type SubscribeMessage struct {
	Type      MessageType `json:"type"`
	Client    string      `json:"client"`
	RegionKey string      `json:"region_key,omitempty"`
}

// KeepaliveMessage is sent by the client every 30-60 seconds
type KeepaliveMessage struct {
	Type MessageType `json:"type"`
}

// AckMessage is sent by the server in response to messages
type AckMessage struct {
	Type   MessageType `json:"type"`
	Status string      `json:"status"`
}

// AckStatus constants
const (
	AckStatusSubscribed = "subscribed"
	AckStatusAlive      = "alive"
	AckStatusError      = "error"
)

// SnapshotMessage carries the full current record set, sent once after a
// successful subscribe and again after a regeneration.
type SnapshotMessage struct {
	Type    MessageType            `json:"type"`
	RunID   string                 `json:"run_id"`
	Seed    uint32                 `json:"seed"`
	Records []scatter.SensorRecord `json:"records"`
}

// UpdateMessage carries the record set produced by one live tick.
type UpdateMessage struct {
	Type     MessageType            `json:"type"`
	TickedAt time.Time              `json:"ticked_at"`
	Records  []scatter.SensorRecord `json:"records"`
}

// ParseMessage parses a JSON line into the appropriate client message type
func ParseMessage(data []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch base.Type {
	case MsgTypeSubscribe:
		var msg SubscribeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid subscribe message: %w", err)
		}
		if msg.Client == "" {
			return nil, fmt.Errorf("client name is required")
		}
		return &msg, nil

	case MsgTypeKeepalive:
		var msg KeepaliveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("invalid keepalive message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unknown message type: %s", base.Type)
	}
}

// EncodeMessage encodes a message to JSON
func EncodeMessage(msg interface{}) ([]byte, error) {
	return json.Marshal(msg)
}

// NewAckMessage creates a new acknowledgment message
func NewAckMessage(status string) *AckMessage {
	return &AckMessage{
		Type:   MsgTypeAck,
		Status: status,
	}
}
