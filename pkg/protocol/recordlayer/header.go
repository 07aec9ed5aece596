// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"encoding/binary"

	"github.com/conduitsec/tls12/pkg/protocol"
)

// Header implements a TLS record layer header
//
// https://tools.ietf.org/html/rfc5246#section-6.2.1
type Header struct {
	ContentType protocol.ContentType
	Version     protocol.Version
	ContentLen  uint16
}

// HeaderSize is the static size of a TLS record header: type, version
// and length.
const HeaderSize = 5

// MaxPlaintextLength is the largest fragment a single plaintext record
// may carry.
const MaxPlaintextLength = 16384

// MaxCiphertextExpansion is the room the active cipher may add on top of
// MaxPlaintextLength (IV/nonce, MAC, padding).
const MaxCiphertextExpansion = 2048

// Marshal encodes a TLS record header to binary.
func (h *Header) Marshal() ([]byte, error) {
	out := make([]byte, HeaderSize)
	out[0] = byte(h.ContentType)
	out[1] = h.Version.Major
	out[2] = h.Version.Minor
	binary.BigEndian.PutUint16(out[3:], h.ContentLen)
	return out, nil
}

// Unmarshal populates a TLS record header from binary.
func (h *Header) Unmarshal(data []byte) error {
	if len(data) < HeaderSize {
		return errBufferTooSmall
	}

	h.ContentType = protocol.ContentType(data[0])
	switch h.ContentType {
	case protocol.ContentTypeChangeCipherSpec,
		protocol.ContentTypeAlert,
		protocol.ContentTypeHandshake,
		protocol.ContentTypeApplicationData:
	default:
		return ErrInvalidContentType
	}

	h.Version.Major = data[1]
	h.Version.Minor = data[2]
	if !protocol.IsSupportedBytes(h.Version.Major, h.Version.Minor) {
		return errUnsupportedVersion
	}

	h.ContentLen = binary.BigEndian.Uint16(data[3:])
	if int(h.ContentLen) > MaxPlaintextLength+MaxCiphertextExpansion {
		return ErrRecordTooLarge
	}

	return nil
}
