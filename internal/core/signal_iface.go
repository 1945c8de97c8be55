package core

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SignalConnection abstracts a system messaging transport endpoint.
// Owned by the adapter; the adapter must Close() it. Sends are
// fire-and-forget: a full or closed endpoint drops the frame.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
