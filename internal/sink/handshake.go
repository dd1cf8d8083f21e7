package sink

import (
	"io"

	"github.com/streamweld/consolesink/internal/sink/jsoncodec"
)

// Handshake constants. The supervising host reads the reply before
// establishing the real session; all three values are fixed per protocol
// revision and must match the host's expectations byte for byte.
const (
	ProtocolVersion  = 1
	MagicCookieKey   = "CONSOLESINK_PLUGIN"
	MagicCookieValue = "b6f1f9c2f30a4d4fb1e6f7f08d9f6f3a"
)

// HandshakeReply is the one-line JSON message emitted in handshake mode.
type HandshakeReply struct {
	ProtocolVersion  int    `json:"protocolVersion"`
	MagicCookieKey   string `json:"magicCookieKey"`
	MagicCookieValue string `json:"magicCookieValue"`
}

// NewHandshakeReply returns the reply for the current protocol revision.
func NewHandshakeReply() HandshakeReply {
	return HandshakeReply{
		ProtocolVersion:  ProtocolVersion,
		MagicCookieKey:   MagicCookieKey,
		MagicCookieValue: MagicCookieValue,
	}
}

// WriteHandshake emits the reply as a single newline-terminated JSON line.
func WriteHandshake(w io.Writer) error {
	return jsoncodec.Encode(w, NewHandshakeReply())
}
