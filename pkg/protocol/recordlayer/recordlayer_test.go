// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"testing"

	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/stretchr/testify/assert"
)

func TestRecordLayerRoundTrip(t *testing.T) {
	rawRecord := []byte{
		0x15, 0x03, 0x03, 0x00, 0x02, // alert record header
		0x02, 0x28, // fatal handshake_failure
	}

	r := &RecordLayer{}
	assert.NoError(t, r.Unmarshal(rawRecord))
	assert.Equal(t, protocol.ContentTypeAlert, r.Header.ContentType)
	assert.Equal(t, protocol.Version1_2, r.Header.Version)

	a, ok := r.Content.(*alert.Alert)
	assert.True(t, ok)
	assert.Equal(t, alert.Fatal, a.Level)
	assert.Equal(t, alert.HandshakeFailure, a.Description)

	raw, err := r.Marshal()
	assert.NoError(t, err)
	assert.Equal(t, rawRecord, raw)
}

func TestRecordLayerHeaderInvalidContentType(t *testing.T) {
	h := &Header{}
	assert.ErrorIs(t, h.Unmarshal([]byte{0x63, 0x03, 0x03, 0x00, 0x00}), ErrInvalidContentType)
}

func TestRecordLayerHeaderUnsupportedVersion(t *testing.T) {
	h := &Header{}
	assert.ErrorIs(t, h.Unmarshal([]byte{0x16, 0xfe, 0xfd, 0x00, 0x00}), errUnsupportedVersion)
}

func TestRecordLayerHeaderTooSmall(t *testing.T) {
	h := &Header{}
	assert.ErrorIs(t, h.Unmarshal([]byte{0x16, 0x03}), errBufferTooSmall)
}

func TestRecordLayerHeaderTooLarge(t *testing.T) {
	h := &Header{}
	// 0x5000 is past the plaintext limit plus cipher expansion
	assert.ErrorIs(t, h.Unmarshal([]byte{0x16, 0x03, 0x03, 0x50, 0x00}), ErrRecordTooLarge)
}

func TestRecordLayerLengthMismatch(t *testing.T) {
	r := &RecordLayer{}
	assert.ErrorIs(t, r.Unmarshal([]byte{0x15, 0x03, 0x03, 0x00, 0x05, 0x02, 0x28}), errLengthMismatch)
}

func TestRecordLayerMarshalOversized(t *testing.T) {
	r := &RecordLayer{
		Header:  Header{Version: protocol.Version1_2},
		Content: &protocol.ApplicationData{Data: make([]byte, MaxPlaintextLength+1)},
	}
	_, err := r.Marshal()
	assert.ErrorIs(t, err, ErrRecordTooLarge)
}
