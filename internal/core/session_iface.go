package core

// SessionID identifies one active transport connection. It is assigned by the
// transport adapter and is opaque to the relay.
type SessionID string
