// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

const (
	gcmTagLength           = 16
	gcmExplicitNonceLength = 8
	gcmImplicitNonceLength = 4
)

// GCM Provides an API to Encrypt/Decrypt TLS 1.2 records.
type GCM struct {
	localGCM, remoteGCM         cipher.AEAD
	localWriteIV, remoteWriteIV []byte
}

// NewGCM creates a TLS GCM Cipher.
func NewGCM(localKey, localWriteIV, remoteKey, remoteWriteIV []byte) (*GCM, error) {
	localBlock, err := aes.NewCipher(localKey)
	if err != nil {
		return nil, err
	}
	localGCM, err := cipher.NewGCM(localBlock)
	if err != nil {
		return nil, err
	}

	remoteBlock, err := aes.NewCipher(remoteKey)
	if err != nil {
		return nil, err
	}
	remoteGCM, err := cipher.NewGCM(remoteBlock)
	if err != nil {
		return nil, err
	}

	return &GCM{
		localGCM:      localGCM,
		localWriteIV:  localWriteIV,
		remoteGCM:     remoteGCM,
		remoteWriteIV: remoteWriteIV,
	}, nil
}

// Encrypt encrypts a TLS RecordLayer message. raw contains the record
// header followed by the plaintext fragment; the sequence number doubles
// as the explicit nonce.
//
// https://tools.ietf.org/html/rfc5288#section-3
func (g *GCM) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	payload := raw[recordlayer.HeaderSize:]
	raw = raw[:recordlayer.HeaderSize]

	nonce := make([]byte, 0, gcmImplicitNonceLength+gcmExplicitNonceLength)
	nonce = append(nonce, g.localWriteIV[:gcmImplicitNonceLength]...)
	nonce = nonce[:cap(nonce)]
	binary.BigEndian.PutUint64(nonce[gcmImplicitNonceLength:], sequenceNumber)

	additionalData := generateAEADAdditionalData(&pkt.Header, sequenceNumber, len(payload))
	encryptedPayload := g.localGCM.Seal(nil, nonce, payload, additionalData)

	encryptedPayload = append(nonce[gcmImplicitNonceLength:], encryptedPayload...)
	raw = append(raw, encryptedPayload...)

	// Update recordLayer size to include explicit nonce
	binary.BigEndian.PutUint16(raw[recordlayer.HeaderSize-2:], uint16(len(raw)-recordlayer.HeaderSize))
	return raw, nil
}

// Decrypt decrypts a TLS RecordLayer message. in contains the full
// record; the explicit nonce is carried in the first 8 bytes of the
// fragment.
func (g *GCM) Decrypt(header recordlayer.Header, in []byte, sequenceNumber uint64) ([]byte, error) {
	if len(in) <= (gcmExplicitNonceLength + recordlayer.HeaderSize + gcmTagLength) {
		return nil, errNotEnoughRoomForNonce
	}

	nonce := make([]byte, 0, gcmImplicitNonceLength+gcmExplicitNonceLength)
	nonce = append(nonce, g.remoteWriteIV[:gcmImplicitNonceLength]...)
	nonce = append(nonce, in[recordlayer.HeaderSize:recordlayer.HeaderSize+gcmExplicitNonceLength]...)
	out := in[recordlayer.HeaderSize+gcmExplicitNonceLength:]

	additionalData := generateAEADAdditionalData(&header, sequenceNumber, len(out)-gcmTagLength)
	out, err := g.remoteGCM.Open(out[:0], nonce, out, additionalData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecryptPacket, err) //nolint:errorlint
	}
	return append(in[:recordlayer.HeaderSize], out...), nil
}
