package domain

// Binding is the room membership of one connection: Unbound or Bound.
type Binding interface {
	isBinding()
}

type Unbound struct{}

type Bound struct {
	Room RoomCode
}

func (Unbound) isBinding() {}
func (Bound) isBinding()   {}

// RoomOf reports the room of a Bound binding.
func RoomOf(b Binding) (RoomCode, bool) {
	if bound, ok := b.(Bound); ok {
		return bound.Room, true
	}
	return "", false
}
