// Package domain contains entities without transport logic, just values.
package domain

import "strings"

// RoomCode is the short, shareable identifier of a live room.
type RoomCode string

// NormalizeRoomCode turns user input into the canonical upper-case form.
func NormalizeRoomCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}
