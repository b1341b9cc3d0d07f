package orch

import (
	"sync"

	"github.com/dkeye/Tabletop/internal/app"
	"github.com/dkeye/Tabletop/internal/core"
	"github.com/dkeye/Tabletop/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the relay dispatcher. Each public method handles one
// inbound event to completion under mu, so registry mutations and the
// broadcasts they cause never interleave with another event.
type Orchestrator struct {
	Registry *app.Registry
	Rooms    *core.RoomRegistry
	Policy   app.Policy

	mu sync.Mutex
}

func New(reg *app.Registry, rooms *core.RoomRegistry, policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Policy:   policy,
	}
}

// ListRooms is a read-only view for the HTTP front.
func (o *Orchestrator) ListRooms() []core.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.List()
}

// reply sends to one connection.
func (o *Orchestrator) reply(sid core.SessionID, event string, payload any) {
	frame, err := core.EncodeFrame(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("encode reply")
		return
	}
	room, _ := o.Registry.RoomOf(sid)
	o.deliver(room, sid, frame)
}

// broadcastFrom sends to every member of room except the sender.
func (o *Orchestrator) broadcastFrom(room domain.RoomCode, from core.SessionID, event string, payload any) int {
	frame, err := core.EncodeFrame(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Str("event", event).Msg("encode broadcast")
		return 0
	}
	sent := 0
	for _, sid := range o.Rooms.Members(room) {
		if sid == from {
			continue
		}
		if o.deliver(room, sid, frame) {
			sent++
		}
	}
	log.Debug().Str("module", "orch").Str("room", string(room)).Str("from", string(from)).Str("event", event).Int("sent_to", sent).Msg("broadcast result")
	return sent
}

// deliver is best-effort: failures are handled by Policy and never reported
// back to the sender.
func (o *Orchestrator) deliver(room domain.RoomCode, sid core.SessionID, frame core.Frame) bool {
	conn, ok := o.Registry.GetSignal(sid)
	if !ok {
		return false
	}
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Msg("delivery failed")
	if o.Policy == nil {
		return false
	}
	switch o.Policy.OnBackPressure(room, sid) {
	case app.KickMember:
		// The read loop notices the closed socket and runs OnDisconnect.
		o.Registry.Cancel(sid)
		conn.Close()
	case app.DropFrame, app.NoAction:
	}
	return false
}
