package core

import (
	"crypto/rand"
	"math/big"

	"github.com/dkeye/Tabletop/internal/domain"
)

const (
	DefaultRoomCodeLength = 6
	roomCodeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// CodeGenerator produces a room code. It does not guarantee uniqueness;
// RoomRegistry checks live rooms at insertion time.
type CodeGenerator func() domain.RoomCode

// NewCodeGenerator returns a generator of upper-case alphanumeric codes.
func NewCodeGenerator(length int) CodeGenerator {
	if length <= 0 {
		length = DefaultRoomCodeLength
	}
	max := big.NewInt(int64(len(roomCodeAlphabet)))
	return func() domain.RoomCode {
		buf := make([]byte, length)
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				// crypto/rand does not fail on supported platforms
				panic(err)
			}
			buf[i] = roomCodeAlphabet[n.Int64()]
		}
		return domain.RoomCode(buf)
	}
}
