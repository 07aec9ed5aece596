// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package handshake provides the TLS 1.2 handshake message codec
//
// A handshake message is a 4 byte header, message type and uint24 body
// length, followed by the message body. Multiple handshake messages may
// be coalesced into a single record.
// https://tools.ietf.org/html/rfc5246#section-7.4
package handshake

import (
	"github.com/conduitsec/tls12/internal/ciphersuite/types"
	"github.com/conduitsec/tls12/pkg/protocol"
)

// Type is the unique identifier for each handshake message
//
// https://tools.ietf.org/html/rfc5246#section-7.4
type Type uint8

// Types of handshake messages.
const (
	TypeHelloRequest       Type = 0
	TypeClientHello        Type = 1
	TypeServerHello        Type = 2
	TypeCertificate        Type = 11
	TypeServerKeyExchange  Type = 12
	TypeCertificateRequest Type = 13
	TypeServerHelloDone    Type = 14
	TypeCertificateVerify  Type = 15
	TypeClientKeyExchange  Type = 16
	TypeFinished           Type = 20
)

// String returns the string representation of this type.
func (t Type) String() string {
	switch t {
	case TypeHelloRequest:
		return "HelloRequest"
	case TypeClientHello:
		return "ClientHello"
	case TypeServerHello:
		return "ServerHello"
	case TypeCertificate:
		return "Certificate"
	case TypeServerKeyExchange:
		return "ServerKeyExchange"
	case TypeCertificateRequest:
		return "CertificateRequest"
	case TypeServerHelloDone:
		return "ServerHelloDone"
	case TypeCertificateVerify:
		return "CertificateVerify"
	case TypeClientKeyExchange:
		return "ClientKeyExchange"
	case TypeFinished:
		return "Finished"
	}
	return ""
}

// Message is the interface all handshake message bodies must satisfy.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error

	Type() Type
}

// Handshake protocol is responsible for selecting a cipher suite and
// generating a master secret for the current session with the peer.
type Handshake struct {
	Header  Header
	Message Message

	// KeyExchangeAlgorithm is not covered by the codec itself. The
	// ClientKeyExchange body has no discriminator, its layout depends on
	// the cipher suite negotiated earlier in the session.
	KeyExchangeAlgorithm types.KeyExchangeAlgorithm
}

// ContentType returns what kind of content this message is carrying.
func (h Handshake) ContentType() protocol.ContentType {
	return protocol.ContentTypeHandshake
}

// Marshal encodes a handshake message, header and body.
func (h *Handshake) Marshal() ([]byte, error) {
	if h.Message == nil {
		return nil, errHandshakeMessageUnset
	}

	msg, err := h.Message.Marshal()
	if err != nil {
		return nil, err
	}

	h.Header.Type = h.Message.Type()
	h.Header.Length = uint32(len(msg))
	header, err := h.Header.Marshal()
	if err != nil {
		return nil, err
	}

	return append(header, msg...), nil
}

// Unmarshal decodes a single handshake message, header and body. The
// data must contain exactly one message.
func (h *Handshake) Unmarshal(data []byte) error {
	if err := h.Header.Unmarshal(data); err != nil {
		return err
	}
	if len(data) != HeaderSize+int(h.Header.Length) {
		return errLengthMismatch
	}

	switch h.Header.Type {
	case TypeHelloRequest:
		h.Message = &MessageHelloRequest{}
	case TypeClientHello:
		h.Message = &MessageClientHello{}
	case TypeServerHello:
		h.Message = &MessageServerHello{}
	case TypeCertificate:
		h.Message = &MessageCertificate{}
	case TypeServerKeyExchange:
		h.Message = &MessageServerKeyExchange{}
	case TypeCertificateRequest:
		h.Message = &MessageCertificateRequest{}
	case TypeServerHelloDone:
		h.Message = &MessageServerHelloDone{}
	case TypeClientKeyExchange:
		h.Message = &MessageClientKeyExchange{
			KeyExchangeAlgorithm: h.KeyExchangeAlgorithm,
		}
	case TypeFinished:
		h.Message = &MessageFinished{}
	default:
		return errNotImplemented
	}

	return h.Message.Unmarshal(data[HeaderSize:])
}
