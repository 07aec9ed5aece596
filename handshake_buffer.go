package tls12

import (
	"github.com/conduitsec/tls12/internal/util"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
)

// A handshake message may be split across records, and one record may
// carry several messages. maxHandshakeMessageLength bounds how much we
// buffer for a single message; the length field is a uint24 so nothing
// larger can be framed.
const maxHandshakeMessageLength = 1 << 24

// handshakeBuffer reassembles the handshake message stream out of
// record fragments.
type handshakeBuffer struct {
	buf []byte
}

func newHandshakeBuffer() *handshakeBuffer {
	return &handshakeBuffer{}
}

// push appends the handshake fragment of one record.
func (b *handshakeBuffer) push(data []byte) error {
	if len(b.buf)+len(data) > maxHandshakeMessageLength+handshake.HeaderSize {
		return errHandshakeMessageTooLarge
	}
	b.buf = append(b.buf, data...)
	return nil
}

// pop returns the next complete handshake message, header and body, or
// false if more fragments are needed.
func (b *handshakeBuffer) pop() (handshake.Type, []byte, bool) {
	if len(b.buf) < handshake.HeaderSize {
		return 0, nil, false
	}

	length := int(util.BigEndianUint24(b.buf[1:]))
	if len(b.buf) < handshake.HeaderSize+length {
		return 0, nil, false
	}

	typ := handshake.Type(b.buf[0])
	raw := append([]byte{}, b.buf[:handshake.HeaderSize+length]...)
	b.buf = b.buf[handshake.HeaderSize+length:]

	return typ, raw, true
}
