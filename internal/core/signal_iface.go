package core

// Frame is one encoded outbound message.
type Frame []byte

// SignalConnection abstracts the messaging transport of one peer.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking and fails when the queue is full.
	TrySend(Frame) error
	Close()
}
