package orch

import (
	"encoding/json"

	"github.com/dkeye/Tabletop/internal/core"
	"github.com/dkeye/Tabletop/internal/domain"
	"github.com/rs/zerolog/log"
)

// Chat rebroadcasts the chat entry verbatim to the sender's room mates.
func (o *Orchestrator) Chat(sid core.SessionID, payload json.RawMessage) {
	o.relay(sid, core.EventChatMessage, payload)
}

// Voice rebroadcasts an audio chunk verbatim. Nothing is buffered.
func (o *Orchestrator) Voice(sid core.SessionID, payload json.RawMessage) {
	o.relay(sid, core.EventVoiceData, payload)
}

// UpdateState merges a partial state object into the room's shared state and
// forwards the same delta, not the merged state, to the other members.
func (o *Orchestrator) UpdateState(sid core.SessionID, payload json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	code, bound := o.Registry.RoomOf(sid)
	if !bound {
		return
	}
	delta, err := domain.ParseGameState(payload)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("state update dropped")
		return
	}
	if _, ok := o.Rooms.MergeState(code, sid, delta); !ok {
		return
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Strs("keys", delta.Keys()).Msg("state merged")
	o.broadcastFrom(code, sid, core.EventGameStateUpdate, payload)
}

func (o *Orchestrator) relay(sid core.SessionID, event string, payload json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	code, bound := o.Registry.RoomOf(sid)
	if !bound {
		return
	}
	if len(payload) == 0 {
		payload = nil
	}
	o.broadcastFrom(code, sid, event, payload)
}
