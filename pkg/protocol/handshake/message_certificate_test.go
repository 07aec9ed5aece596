// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandshakeMessageCertificate(t *testing.T) {
	rawCertificate := []byte{
		0x00, 0x00, 0x0b, // total length
		0x00, 0x00, 0x03, 0x01, 0x02, 0x03, // first certificate
		0x00, 0x00, 0x02, 0x04, 0x05, // second certificate
	}

	c := &MessageCertificate{}
	assert.NoError(t, c.Unmarshal(rawCertificate))
	assert.Equal(t, [][]byte{{0x01, 0x02, 0x03}, {0x04, 0x05}}, c.Certificate)

	raw, err := c.Marshal()
	assert.NoError(t, err)
	assert.Equal(t, rawCertificate, raw)
}

func TestHandshakeMessageCertificateLengthMismatch(t *testing.T) {
	c := &MessageCertificate{}
	assert.ErrorIs(t, c.Unmarshal([]byte{0x00, 0x00, 0x05, 0x00}), errLengthMismatch)
}
