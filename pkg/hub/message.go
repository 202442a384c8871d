// Package hub provides a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern. glyphcam runs one hub per feed: ascii
// blocks, painted frames, status, logs.
package hub

// Kind indicates the websocket message format.
type Kind int

const (
	// TextKind is a text payload (ascii blocks, JSON).
	TextKind Kind = iota
	// BinaryKind is raw binary data (JPEG frames).
	BinaryKind
)

// Message is one payload to fan out to connected clients.
type Message struct {
	Kind Kind
	Data []byte
}

// Text wraps a text payload.
func Text(data []byte) Message {
	return Message{Kind: TextKind, Data: data}
}

// Binary wraps a binary payload.
func Binary(data []byte) Message {
	return Message{Kind: BinaryKind, Data: data}
}
