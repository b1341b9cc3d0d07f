package core

import (
	"errors"
	"time"

	"github.com/dkeye/Tabletop/internal/domain"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrCodeExhausted = errors.New("could not allocate a free room code")
)

// RoomSnapshot is what a joining peer receives to catch up.
type RoomSnapshot struct {
	RoomCode  domain.RoomCode  `json:"roomCode"`
	GameState domain.GameState `json:"gameState"`
}

// RoomInfo is a read-only view for listings.
type RoomInfo struct {
	Code        domain.RoomCode `json:"code"`
	MemberCount int             `json:"memberCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}
