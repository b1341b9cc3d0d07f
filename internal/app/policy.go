package app

import (
	"strings"

	"github.com/dkeye/Tabletop/internal/core"
	"github.com/dkeye/Tabletop/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a recipient whose send queue is full.
type Policy interface {
	OnBackPressure(room domain.RoomCode, sid core.SessionID) BackpressureAction
}

// SimplePolicy disconnects slow peers.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomCode, core.SessionID) BackpressureAction {
	return KickMember
}

// LenientPolicy drops the frame and keeps the peer.
type LenientPolicy struct{}

func (LenientPolicy) OnBackPressure(domain.RoomCode, core.SessionID) BackpressureAction {
	return DropFrame
}

// PolicyByName maps the slow_peer_policy setting to a Policy.
func PolicyByName(name string) Policy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kick":
		return SimplePolicy{}
	default:
		return LenientPolicy{}
	}
}
