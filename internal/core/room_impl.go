package core

import (
	"sort"
	"time"

	"github.com/dkeye/Tabletop/internal/domain"
)

// maxCodeAttempts bounds regeneration when a generated code is already live.
const maxCodeAttempts = 32

// Room is owned exclusively by RoomRegistry. Members are held by id only.
type Room struct {
	Code      domain.RoomCode
	Members   map[SessionID]struct{}
	State     domain.GameState
	CreatedAt time.Time
}

// RoomRegistry maps room codes to live rooms.
// It has no transport knowledge and is not safe for concurrent use: the
// dispatcher serializes every call.
type RoomRegistry struct {
	rooms      map[domain.RoomCode]*Room
	gen        CodeGenerator
	maxMembers int
}

// NewRoomRegistry builds an empty registry. maxMembers <= 0 disables the
// member limit.
func NewRoomRegistry(gen CodeGenerator, maxMembers int) *RoomRegistry {
	if gen == nil {
		gen = NewCodeGenerator(DefaultRoomCodeLength)
	}
	return &RoomRegistry{
		rooms:      make(map[domain.RoomCode]*Room),
		gen:        gen,
		maxMembers: maxMembers,
	}
}

// CreateRoom inserts a room whose only member is host and returns its code.
// A generated code that collides with a live room is regenerated.
func (r *RoomRegistry) CreateRoom(host SessionID) (domain.RoomCode, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := r.gen()
		if _, taken := r.rooms[code]; taken {
			continue
		}
		r.rooms[code] = &Room{
			Code:      code,
			Members:   map[SessionID]struct{}{host: {}},
			State:     domain.GameState{},
			CreatedAt: time.Now(),
		}
		return code, nil
	}
	return "", ErrCodeExhausted
}

// JoinRoom adds peer to the room and returns a copy of its shared state.
// An unknown code leaves the registry untouched.
func (r *RoomRegistry) JoinRoom(code domain.RoomCode, peer SessionID) (RoomSnapshot, error) {
	room, ok := r.rooms[code]
	if !ok {
		return RoomSnapshot{}, ErrRoomNotFound
	}
	if _, member := room.Members[peer]; !member {
		if r.maxMembers > 0 && len(room.Members) >= r.maxMembers {
			return RoomSnapshot{}, ErrRoomFull
		}
		room.Members[peer] = struct{}{}
	}
	return RoomSnapshot{RoomCode: code, GameState: room.State.Clone()}, nil
}

// MergeState applies delta to the room's shared state and hands the delta
// back for rebroadcast. It reports false when the room no longer exists.
func (r *RoomRegistry) MergeState(code domain.RoomCode, _ SessionID, delta domain.GameState) (domain.GameState, bool) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, false
	}
	room.State.Merge(delta)
	return delta, true
}

// RemoveMember drops peer from the room and deletes the room once empty.
// It returns the members left behind and whether the room was deleted.
func (r *RoomRegistry) RemoveMember(code domain.RoomCode, peer SessionID) ([]SessionID, bool) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, false
	}
	delete(room.Members, peer)
	if len(room.Members) == 0 {
		delete(r.rooms, code)
		return nil, true
	}
	return membersOf(room), false
}

func (r *RoomRegistry) Members(code domain.RoomCode) []SessionID {
	room, ok := r.rooms[code]
	if !ok {
		return nil
	}
	return membersOf(room)
}

func (r *RoomRegistry) IsMember(code domain.RoomCode, peer SessionID) bool {
	room, ok := r.rooms[code]
	if !ok {
		return false
	}
	_, member := room.Members[peer]
	return member
}

func (r *RoomRegistry) Has(code domain.RoomCode) bool {
	_, ok := r.rooms[code]
	return ok
}

// State returns a copy of the room's shared state.
func (r *RoomRegistry) State(code domain.RoomCode) (domain.GameState, bool) {
	room, ok := r.rooms[code]
	if !ok {
		return nil, false
	}
	return room.State.Clone(), true
}

func (r *RoomRegistry) Len() int { return len(r.rooms) }

// List returns live rooms ordered by code.
func (r *RoomRegistry) List() []RoomInfo {
	out := make([]RoomInfo, 0, len(r.rooms))
	for code, room := range r.rooms {
		out = append(out, RoomInfo{Code: code, MemberCount: len(room.Members), CreatedAt: room.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func membersOf(room *Room) []SessionID {
	out := make([]SessionID, 0, len(room.Members))
	for sid := range room.Members {
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
