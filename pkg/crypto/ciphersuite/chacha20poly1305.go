// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
	"golang.org/x/crypto/chacha20poly1305"
)

const chaCha20Poly1305TagLength = 16

// ChaCha20Poly1305 provides an API to Encrypt/Decrypt TLS 1.2 records
// with the AEAD_CHACHA20_POLY1305 construction. Unlike AES-GCM there is
// no explicit nonce: the per record nonce is the write IV XORed with the
// sequence number.
//
// https://tools.ietf.org/html/rfc7905#section-2
type ChaCha20Poly1305 struct {
	localAEAD, remoteAEAD       cipher.AEAD
	localWriteIV, remoteWriteIV []byte
}

// NewChaCha20Poly1305 creates a TLS ChaCha20Poly1305 Cipher.
func NewChaCha20Poly1305(localKey, localWriteIV, remoteKey, remoteWriteIV []byte) (*ChaCha20Poly1305, error) {
	localAEAD, err := chacha20poly1305.New(localKey)
	if err != nil {
		return nil, err
	}

	remoteAEAD, err := chacha20poly1305.New(remoteKey)
	if err != nil {
		return nil, err
	}

	return &ChaCha20Poly1305{
		localAEAD:     localAEAD,
		localWriteIV:  localWriteIV,
		remoteAEAD:    remoteAEAD,
		remoteWriteIV: remoteWriteIV,
	}, nil
}

func chaChaNonce(writeIV []byte, sequenceNumber uint64) []byte {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.BigEndian.PutUint64(nonce[4:], sequenceNumber)
	for i := range nonce {
		nonce[i] ^= writeIV[i]
	}
	return nonce
}

// Encrypt encrypts a TLS RecordLayer message.
func (c *ChaCha20Poly1305) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	payload := raw[recordlayer.HeaderSize:]
	raw = raw[:recordlayer.HeaderSize]

	nonce := chaChaNonce(c.localWriteIV, sequenceNumber)
	additionalData := generateAEADAdditionalData(&pkt.Header, sequenceNumber, len(payload))
	encryptedPayload := c.localAEAD.Seal(nil, nonce, payload, additionalData)

	raw = append(raw, encryptedPayload...)
	binary.BigEndian.PutUint16(raw[recordlayer.HeaderSize-2:], uint16(len(raw)-recordlayer.HeaderSize))
	return raw, nil
}

// Decrypt decrypts a TLS RecordLayer message.
func (c *ChaCha20Poly1305) Decrypt(header recordlayer.Header, in []byte, sequenceNumber uint64) ([]byte, error) {
	if len(in) <= recordlayer.HeaderSize+chaCha20Poly1305TagLength {
		return nil, errNotEnoughRoomForNonce
	}

	nonce := chaChaNonce(c.remoteWriteIV, sequenceNumber)
	out := in[recordlayer.HeaderSize:]

	additionalData := generateAEADAdditionalData(&header, sequenceNumber, len(out)-chaCha20Poly1305TagLength)
	out, err := c.remoteAEAD.Open(out[:0], nonce, out, additionalData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}
	return append(in[:recordlayer.HeaderSize], out...), nil
}
