package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedState = errors.New("state payload is not a JSON object")

// GameState is a schema-less key/value patch. Values are opaque JSON and are
// never inspected. Merging is shallow and last-write-wins per key; it is not
// a CRDT.
type GameState map[string]json.RawMessage

// ParseGameState decodes a JSON object into a GameState.
func ParseGameState(raw []byte) (GameState, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedState
	}
	var s GameState
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	if s == nil {
		s = GameState{}
	}
	return s, nil
}

// Merge copies every key of delta into s, overwriting existing values.
func (s GameState) Merge(delta GameState) {
	for k, v := range delta {
		s[k] = append(json.RawMessage(nil), v...)
	}
}

func (s GameState) Clone() GameState {
	out := make(GameState, len(s))
	for k, v := range s {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Keys is used for logging only.
func (s GameState) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
