// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import ( //nolint:gci
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"

	"github.com/conduitsec/tls12/internal/util"
	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

// block ciphers using cipher block chaining.
type cbcMode interface {
	cipher.BlockMode
	SetIV([]byte)
}

// CBC is a TLS 1.2 CBC block cipher with HMAC, mac-then-encrypt with an
// explicit per record IV.
//
// https://tools.ietf.org/html/rfc5246#section-6.2.3.2
type CBC struct {
	writeCBC, readCBC cbcMode
	writeMac, readMac []byte
	h                 prf.HashFunc
}

// NewCBC creates a TLS CBC Cipher.
func NewCBC(localKey, localMac, remoteKey, remoteMac []byte, h prf.HashFunc) (*CBC, error) {
	writeBlock, err := aes.NewCipher(localKey)
	if err != nil {
		return nil, err
	}

	readBlock, err := aes.NewCipher(remoteKey)
	if err != nil {
		return nil, err
	}

	// Per record IVs make the chaining IV irrelevant, SetIV replaces it
	// before every operation.
	zeroIV := make([]byte, writeBlock.BlockSize())

	writeCBC, ok := cipher.NewCBCEncrypter(writeBlock, zeroIV).(cbcMode)
	if !ok {
		return nil, errFailedToCast
	}
	readCBC, ok := cipher.NewCBCDecrypter(readBlock, zeroIV).(cbcMode)
	if !ok {
		return nil, errFailedToCast
	}

	return &CBC{
		writeCBC: writeCBC,
		writeMac: localMac,

		readCBC: readCBC,
		readMac: remoteMac,
		h:       h,
	}, nil
}

// Encrypt encrypts a TLS RecordLayer message.
func (c *CBC) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	payload := raw[recordlayer.HeaderSize:]
	raw = raw[:recordlayer.HeaderSize]
	blockSize := c.writeCBC.BlockSize()

	// Generate + Append MAC
	h := pkt.Header

	mac, err := prf.Mac(c.h, sequenceNumber, h.ContentType, h.Version, payload, c.writeMac)
	if err != nil {
		return nil, err
	}
	payload = append(payload, mac...)

	// Generate + Append padding
	padding := make([]byte, blockSize-len(payload)%blockSize)
	paddingLen := len(padding)
	for i := 0; i < paddingLen; i++ {
		padding[i] = byte(paddingLen - 1)
	}
	payload = append(payload, padding...)

	// Generate IV
	iv := make([]byte, blockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	// Set IV + Encrypt + Prepend IV
	c.writeCBC.SetIV(iv)
	c.writeCBC.CryptBlocks(payload, payload)
	payload = append(iv, payload...)

	// Prepend unencrypted header with encrypted payload
	raw = append(raw, payload...)

	// Update recordLayer size to include IV+MAC+Padding
	binary.BigEndian.PutUint16(raw[recordlayer.HeaderSize-2:], uint16(len(raw)-recordlayer.HeaderSize))

	return raw, nil
}

// Decrypt decrypts a TLS RecordLayer message.
func (c *CBC) Decrypt(h recordlayer.Header, in []byte, sequenceNumber uint64) ([]byte, error) {
	body := in[recordlayer.HeaderSize:]
	blockSize := c.readCBC.BlockSize()
	mac := c.h()

	if len(body)%blockSize != 0 || len(body) < blockSize+util.Max(mac.Size()+1, blockSize) {
		return nil, errNotEnoughRoomForNonce
	}

	// Set + remove per record IV
	c.readCBC.SetIV(body[:blockSize])
	body = body[blockSize:]

	// Decrypt
	c.readCBC.CryptBlocks(body, body)

	// Padding+MAC needs to be checked in constant time
	// Otherwise we reveal information about the level of correctness
	paddingLen, paddingGood := examinePadding(body)

	macSize := mac.Size()
	if len(body) < macSize {
		return nil, errInvalidMAC
	}

	dataEnd := len(body) - macSize - paddingLen

	// Valid padding may still claim more room than MAC plus data allow.
	// Clamp in constant time instead of slicing out of range.
	dataEnd = subtle.ConstantTimeSelect(int(uint32(dataEnd)>>31), 0, dataEnd)

	expectedMAC := body[dataEnd : dataEnd+macSize]
	actualMAC, err := prf.Mac(c.h, sequenceNumber, h.ContentType, h.Version, body[:dataEnd], c.readMac)

	// Compute Local MAC and compare
	if paddingGood != 255 || err != nil || !hmac.Equal(actualMAC, expectedMAC) {
		return nil, errInvalidMAC
	}

	return append(in[:recordlayer.HeaderSize], body[:dataEnd]...), nil
}
