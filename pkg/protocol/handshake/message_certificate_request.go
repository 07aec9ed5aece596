// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"

	"github.com/conduitsec/tls12/pkg/crypto/hash"
	"github.com/conduitsec/tls12/pkg/crypto/signature"
	"github.com/conduitsec/tls12/pkg/crypto/signaturehash"
)

// MessageCertificateRequest is a request from the server for the client
// to authenticate with a certificate. We decode it so the handshake can
// reject it cleanly, client certificates are not supported.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.4
type MessageCertificateRequest struct {
	CertificateTypes        []byte
	SignatureHashAlgorithms []signaturehash.Algorithm
	// DistinguishedNames is kept encoded, we never act on it.
	DistinguishedNames []byte
}

// Type returns the Handshake Type.
func (m MessageCertificateRequest) Type() Type {
	return TypeCertificateRequest
}

// Marshal encodes the Handshake.
func (m *MessageCertificateRequest) Marshal() ([]byte, error) {
	out := []byte{byte(len(m.CertificateTypes))}
	out = append(out, m.CertificateTypes...)

	out = append(out, []byte{0x00, 0x00}...)
	binary.BigEndian.PutUint16(out[len(out)-2:], uint16(len(m.SignatureHashAlgorithms)*2))
	for _, v := range m.SignatureHashAlgorithms {
		out = append(out, byte(v.Hash), byte(v.Signature))
	}

	out = append(out, []byte{0x00, 0x00}...)
	binary.BigEndian.PutUint16(out[len(out)-2:], uint16(len(m.DistinguishedNames)))
	return append(out, m.DistinguishedNames...), nil
}

// Unmarshal populates the message from encoded data.
func (m *MessageCertificateRequest) Unmarshal(data []byte) error {
	if len(data) < 1 {
		return errBufferTooSmall
	}

	offset := 0
	certificateTypesLength := int(data[0])
	offset++
	if len(data) < offset+certificateTypesLength {
		return errBufferTooSmall
	}
	m.CertificateTypes = append([]byte{}, data[offset:offset+certificateTypesLength]...)
	offset += certificateTypesLength

	if len(data) < offset+2 {
		return errBufferTooSmall
	}
	signatureHashAlgorithmsLength := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+signatureHashAlgorithmsLength || signatureHashAlgorithmsLength%2 != 0 {
		return errBufferTooSmall
	}
	for i := 0; i < signatureHashAlgorithmsLength; i += 2 {
		m.SignatureHashAlgorithms = append(m.SignatureHashAlgorithms, signaturehash.Algorithm{
			Hash:      hash.Algorithm(data[offset+i]),
			Signature: signature.Algorithm(data[offset+i+1]),
		})
	}
	offset += signatureHashAlgorithmsLength

	if len(data) < offset+2 {
		return errBufferTooSmall
	}
	distinguishedNamesLength := int(binary.BigEndian.Uint16(data[offset:]))
	offset += 2
	if len(data) < offset+distinguishedNamesLength {
		return errBufferTooSmall
	}
	m.DistinguishedNames = append([]byte{}, data[offset:offset+distinguishedNamesLength]...)

	return nil
}
