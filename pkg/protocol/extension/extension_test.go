// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

import (
	"testing"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/stretchr/testify/assert"
)

func TestExtensionsUnmarshal(t *testing.T) {
	// renegotiation_info followed by an extension type we do not
	// implement, which must be skipped without error
	raw := []byte{
		0x00, 0x09,
		0xff, 0x01, 0x00, 0x01, 0x00,
		0x00, 0x17, 0x00, 0x00,
	}

	extensions, err := Unmarshal(raw)
	assert.NoError(t, err)
	assert.Len(t, extensions, 1)
	assert.Equal(t, RenegotiationInfoTypeValue, extensions[0].TypeValue())
}

func TestExtensionsUnmarshalEmpty(t *testing.T) {
	extensions, err := Unmarshal([]byte{})
	assert.NoError(t, err)
	assert.Empty(t, extensions)
}

func TestExtensionsUnmarshalInvalid(t *testing.T) {
	_, err := Unmarshal([]byte{0x00})
	assert.ErrorIs(t, err, errBufferTooSmall)

	_, err = Unmarshal([]byte{0x00, 0x05, 0xff, 0x01})
	assert.ErrorIs(t, err, errLengthMismatch)
}

func TestExtensionsRoundTrip(t *testing.T) {
	in := []Extension{
		&RenegotiationInfo{},
		&SupportedPointFormats{PointFormats: []elliptic.CurvePointFormat{elliptic.CurvePointFormatUncompressed}},
	}

	raw, err := Marshal(in)
	assert.NoError(t, err)

	out, err := Unmarshal(raw)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}
