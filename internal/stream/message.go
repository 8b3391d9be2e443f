package stream

import (
	"encoding/json"
	"fmt"

	"github.com/rickgao/session-clock/internal/model"
)

// Message types.
const (
	TypeSnapshot = "snapshot"
	TypeHello    = "hello"
)

// Message is the frame envelope.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Hello is sent once after the upgrade.
type Hello struct {
	ClientID string `json:"clientId"`
	Version  string `json:"version"`
}

// Encode wraps v in an envelope of the given type.
func Encode(typ string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return json.Marshal(Message{Type: typ, Data: data})
}

// DecodeSnapshot parses a snapshot frame.
func DecodeSnapshot(frame []byte) (model.Snapshot, error) {
	var msg Message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal frame: %w", err)
	}
	if msg.Type != TypeSnapshot {
		return model.Snapshot{}, fmt.Errorf("unexpected frame type %q", msg.Type)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}
