// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"

	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/stretchr/testify/assert"
)

func TestHandshakeMessage(t *testing.T) {
	rawHandshakeMessage := []byte{
		0x01, 0x00, 0x00, 0x2d, // ClientHello, length 45
		0x03, 0x03, // TLS 1.2
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // random
		0x00,                   // no session id
		0x00, 0x04, 0xc0, 0x2b, 0x00, 0x2f, // cipher suites
		0x01, 0x00, // null compression
		0x00, 0x00, // no extensions
	}

	h := &Handshake{}
	assert.NoError(t, h.Unmarshal(rawHandshakeMessage))
	assert.Equal(t, TypeClientHello, h.Header.Type)
	assert.Equal(t, uint32(0x2d), h.Header.Length)

	clientHello, ok := h.Message.(*MessageClientHello)
	assert.True(t, ok)
	assert.Equal(t, protocol.Version1_2, clientHello.Version)
	assert.Equal(t, []uint16{0xc02b, 0x002f}, clientHello.CipherSuiteIDs)

	raw, err := h.Marshal()
	assert.NoError(t, err)
	assert.Equal(t, rawHandshakeMessage, raw)
}

func TestHandshakeMessageTruncated(t *testing.T) {
	h := &Handshake{}
	// Declared body length larger than the data
	assert.ErrorIs(t, h.Unmarshal([]byte{0x0e, 0x00, 0x00, 0x05}), errLengthMismatch)
}

func TestHandshakeMessageUnknownType(t *testing.T) {
	h := &Handshake{}
	assert.ErrorIs(t, h.Unmarshal([]byte{0x63, 0x00, 0x00, 0x00}), errNotImplemented)
}

func TestHandshakeMessageUnset(t *testing.T) {
	h := &Handshake{}
	_, err := h.Marshal()
	assert.ErrorIs(t, err, errHandshakeMessageUnset)
}
