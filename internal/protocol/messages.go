// Package protocol defines the JSON WebSocket messages exchanged between the
// remote environment server and its clients.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/lox/liarsdeck/internal/game"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeReset  MessageType = "reset"
	TypeStep   MessageType = "step"
	TypeRender MessageType = "render"
	TypeSpec   MessageType = "spec"

	// Server -> Client. Render and spec replies reuse the request type.
	TypeObservation MessageType = "observation"
	TypeError       MessageType = "error"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the envelope for every frame
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage encodes data into a message of the given type
func NewMessage(t MessageType, data any) (*Message, error) {
	msg := &Message{Type: t}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", t, err)
		}
		msg.Data = raw
	}
	return msg, nil
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Type, err)
	}
	return nil
}

type ResetData struct {
	Seed *int64 `json:"seed,omitempty"`
}

// StepData carries the action to play. A nil Action is a malformed request.
type StepData struct {
	Action *game.Action `json:"action"`
}

// NewStepData wraps an action for a step request
func NewStepData(a game.Action) StepData {
	return StepData{Action: &a}
}

// ObservationData answers reset and step. Info is nil after a reset.
type ObservationData struct {
	Observation game.Observation `json:"observation"`
	Reward      float64          `json:"reward"`
	Done        bool             `json:"done"`
	Info        *game.StepInfo   `json:"info,omitempty"`
}

type RenderData struct {
	Text string `json:"text"`
}

// SpecData describes the environment behind a session
type SpecData struct {
	SessionID      string `json:"sessionId"`
	Actions        int    `json:"actions"`
	MaxDeclare     int    `json:"maxDeclare"`
	NumPlayers     int    `json:"numPlayers"`
	ObservationDim int    `json:"observationDim"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
