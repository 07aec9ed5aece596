// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"

	"github.com/conduitsec/tls12/internal/ciphersuite/types"
)

// MessageClientKeyExchange carries the client half of the key
// agreement. For ECDHE suites it is the client's ephemeral public
// point, for RSA suites it is the premaster secret encrypted to the
// server's certificate key. The two encodings share no discriminator,
// the key exchange algorithm must be known from the negotiated suite.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.7
type MessageClientKeyExchange struct {
	PublicKey                []byte
	EncryptedPreMasterSecret []byte

	// KeyExchangeAlgorithm is the agreed upon exchange, it is not
	// encoded in the body.
	KeyExchangeAlgorithm types.KeyExchangeAlgorithm
}

// Type returns the Handshake Type.
func (m MessageClientKeyExchange) Type() Type {
	return TypeClientKeyExchange
}

// Marshal encodes the Handshake.
func (m *MessageClientKeyExchange) Marshal() (out []byte, err error) {
	switch {
	case m.KeyExchangeAlgorithm.Has(types.KeyExchangeAlgorithmEcdhe) && m.PublicKey != nil:
		out = append([]byte{byte(len(m.PublicKey))}, m.PublicKey...)
	case m.KeyExchangeAlgorithm.Has(types.KeyExchangeAlgorithmRsa) && m.EncryptedPreMasterSecret != nil:
		out = append([]byte{0x00, 0x00}, m.EncryptedPreMasterSecret...)
		binary.BigEndian.PutUint16(out, uint16(len(m.EncryptedPreMasterSecret)))
	default:
		return nil, errInvalidClientKeyExchange
	}

	return out, nil
}

// Unmarshal populates the message from encoded data.
func (m *MessageClientKeyExchange) Unmarshal(data []byte) error {
	switch {
	case m.KeyExchangeAlgorithm.Has(types.KeyExchangeAlgorithmEcdhe):
		if len(data) < 1 {
			return errBufferTooSmall
		}
		publicKeyLength := int(data[0])
		if len(data) != publicKeyLength+1 {
			return errLengthMismatch
		}
		m.PublicKey = append([]byte{}, data[1:]...)
	case m.KeyExchangeAlgorithm.Has(types.KeyExchangeAlgorithmRsa):
		if len(data) < 2 {
			return errBufferTooSmall
		}
		secretLength := int(binary.BigEndian.Uint16(data))
		if len(data) != secretLength+2 {
			return errLengthMismatch
		}
		m.EncryptedPreMasterSecret = append([]byte{}, data[2:]...)
	default:
		return errInvalidClientKeyExchange
	}

	return nil
}
