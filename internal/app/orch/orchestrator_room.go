package orch

import (
	"encoding/json"

	"github.com/dkeye/Tabletop/internal/core"
	"github.com/dkeye/Tabletop/internal/domain"
	"github.com/rs/zerolog/log"
)

// Host creates a room with sid as its only member. A bound connection leaves
// its current room first.
func (o *Orchestrator) Host(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Registry.GetSignal(sid); !ok {
		return
	}
	o.leaveCurrent(sid)

	code, err := o.Rooms.CreateRoom(sid)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("create room")
		o.reply(sid, core.EventRoomError, err.Error())
		return
	}
	o.Registry.Bind(sid, code)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Msg("room created")
	o.reply(sid, core.EventRoomCreated, code)
}

// Join adds sid to the room named by payload (a JSON string). An unknown
// room is reported to sid only and changes nothing, even for a bound sid.
// Joining a different room while bound moves the connection.
func (o *Orchestrator) Join(sid core.SessionID, payload json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Registry.GetSignal(sid); !ok {
		return
	}
	var raw string
	if err := json.Unmarshal(payload, &raw); err != nil {
		log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("join payload is not a room code")
	}
	code := domain.NormalizeRoomCode(raw)

	if !o.Rooms.Has(code) {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Msg("join: room not found")
		o.reply(sid, core.EventRoomError, core.ErrRoomNotFound.Error())
		return
	}

	if current, bound := o.Registry.RoomOf(sid); bound && current == code {
		snap, err := o.Rooms.JoinRoom(code, sid)
		if err == nil {
			o.reply(sid, core.EventRoomJoined, snap)
		}
		return
	}
	snap, err := o.Rooms.JoinRoom(code, sid)
	if err != nil {
		log.Info().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Msg("join rejected")
		o.reply(sid, core.EventRoomError, err.Error())
		return
	}
	// Leave the old room only once the new membership is in place.
	o.leaveCurrent(sid)
	o.Registry.Bind(sid, code)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Msg("joined room")
	o.reply(sid, core.EventRoomJoined, snap)
	o.broadcastFrom(code, sid, core.EventPlayerJoined, sid)
}

// Leave returns a bound connection to Unbound without closing it.
func (o *Orchestrator) Leave(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.leaveCurrent(sid) {
		return
	}
	o.reply(sid, core.EventRoomLeft, nil)
}

// OnDisconnect runs once when the transport closes. The connection leaves
// its room, if any, and is deregistered.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.leaveCurrent(sid)
	o.Registry.Unbind(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
}

// leaveCurrent removes sid from its room and tells the members left behind.
// It reports whether sid was bound.
func (o *Orchestrator) leaveCurrent(sid core.SessionID) bool {
	code, bound := o.Registry.Release(sid)
	if !bound {
		return false
	}
	remaining, deleted := o.Rooms.RemoveMember(code, sid)
	if deleted {
		log.Info().Str("module", "orch").Str("room", string(code)).Msg("room deleted")
		return true
	}
	frame, err := core.EncodeFrame(core.EventPlayerLeft, sid)
	if err != nil {
		return true
	}
	for _, peer := range remaining {
		o.deliver(code, peer, frame)
	}
	return true
}
