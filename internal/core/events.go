package core

import (
	"encoding/json"
	"fmt"
)

// Client to server.
const (
	EventHostGame        = "host-game"
	EventJoinGame        = "join-game"
	EventLeaveGame       = "leave-game"
	EventChatMessage     = "chat-message"
	EventGameStateUpdate = "game-state-update"
	EventVoiceData       = "voice-data"
	EventPing            = "ping"
)

// Server to client. Chat, state and voice reuse the inbound names.
const (
	EventRoomCreated  = "room-created"
	EventRoomJoined   = "room-joined"
	EventRoomLeft     = "room-left"
	EventRoomError    = "room-error"
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventPong         = "pong"
)

// Envelope is the JSON text frame exchanged in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeEnvelope parses an inbound frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// EncodeFrame builds an outbound frame. Raw payloads are forwarded as is.
func EncodeFrame(event string, payload any) (Frame, error) {
	env := Envelope{Type: event}
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		env.Payload = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", event, err)
		}
		env.Payload = b
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return Frame(b), nil
}
