// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package recordlayer implements the TLS record layer framing
//
// The record layer sits directly on top of a reliable byte stream such
// as TCP and carries four kinds of content: handshake messages,
// ChangeCipherSpec, alerts, and application data.
// https://tools.ietf.org/html/rfc5246#section-6.2
package recordlayer

import (
	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/conduitsec/tls12/pkg/protocol/handshake"
)

// RecordLayer contains a single TLS record: a 5 byte header followed by
// the fragment, plaintext or ciphertext depending on the connection
// state.
type RecordLayer struct {
	Header  Header
	Content protocol.Content
}

// Marshal encodes the RecordLayer to binary.
func (r *RecordLayer) Marshal() ([]byte, error) {
	contentRaw, err := r.Content.Marshal()
	if err != nil {
		return nil, err
	}
	if len(contentRaw) > MaxPlaintextLength {
		return nil, ErrRecordTooLarge
	}

	r.Header.ContentLen = uint16(len(contentRaw))
	r.Header.ContentType = r.Content.ContentType()

	headerRaw, err := r.Header.Marshal()
	if err != nil {
		return nil, err
	}

	return append(headerRaw, contentRaw...), nil
}

// Unmarshal populates the RecordLayer from binary.
func (r *RecordLayer) Unmarshal(data []byte) error {
	if err := r.Header.Unmarshal(data); err != nil {
		return err
	}
	if len(data) != HeaderSize+int(r.Header.ContentLen) {
		return errLengthMismatch
	}

	switch r.Header.ContentType {
	case protocol.ContentTypeChangeCipherSpec:
		r.Content = &protocol.ChangeCipherSpec{}
	case protocol.ContentTypeAlert:
		r.Content = &alert.Alert{}
	case protocol.ContentTypeHandshake:
		r.Content = &handshake.Handshake{}
	case protocol.ContentTypeApplicationData:
		r.Content = &protocol.ApplicationData{}
	default:
		return ErrInvalidContentType
	}

	return r.Content.Unmarshal(data[HeaderSize:])
}
