// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec
	"testing"

	"github.com/conduitsec/tls12/pkg/protocol"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRandom(t *testing.T, n int) []byte {
	t.Helper()
	out := make([]byte, n)
	_, err := rand.Read(out)
	require.NoError(t, err)
	return out
}

func applicationDataRecord(t *testing.T, payload []byte) (*recordlayer.RecordLayer, []byte) {
	t.Helper()
	rec := &recordlayer.RecordLayer{
		Header: recordlayer.Header{
			Version: protocol.Version1_2,
		},
		Content: &protocol.ApplicationData{Data: payload},
	}
	raw, err := rec.Marshal()
	require.NoError(t, err)
	return rec, raw
}

func TestGCMRoundTrip(t *testing.T) {
	clientKey, clientIV := mustRandom(t, 16), mustRandom(t, 4)
	serverKey, serverIV := mustRandom(t, 16), mustRandom(t, 4)

	client, err := NewGCM(clientKey, clientIV, serverKey, serverIV)
	require.NoError(t, err)
	server, err := NewGCM(serverKey, serverIV, clientKey, clientIV)
	require.NoError(t, err)

	payload := []byte("hello from the record layer")
	rec, raw := applicationDataRecord(t, payload)

	encrypted, err := client.Encrypt(rec, raw, 1)
	require.NoError(t, err)
	assert.NotEqual(t, raw, encrypted)

	decrypted, err := server.Decrypt(rec.Header, encrypted, 1)
	require.NoError(t, err)
	assert.Equal(t, payload, decrypted[recordlayer.HeaderSize:])
}

func TestGCMWrongSequenceNumber(t *testing.T) {
	clientKey, clientIV := mustRandom(t, 16), mustRandom(t, 4)
	serverKey, serverIV := mustRandom(t, 16), mustRandom(t, 4)

	client, err := NewGCM(clientKey, clientIV, serverKey, serverIV)
	require.NoError(t, err)
	server, err := NewGCM(serverKey, serverIV, clientKey, clientIV)
	require.NoError(t, err)

	rec, raw := applicationDataRecord(t, []byte("sequence sensitive"))

	encrypted, err := client.Encrypt(rec, raw, 5)
	require.NoError(t, err)

	// The sequence number is bound into the additional data
	_, err = server.Decrypt(rec.Header, encrypted, 6)
	assert.ErrorIs(t, err, errDecryptPacket)
}

func TestCBCRoundTrip(t *testing.T) {
	clientKey, clientMac := mustRandom(t, 16), mustRandom(t, 20)
	serverKey, serverMac := mustRandom(t, 16), mustRandom(t, 20)

	client, err := NewCBC(clientKey, clientMac, serverKey, serverMac, sha1.New)
	require.NoError(t, err)
	server, err := NewCBC(serverKey, serverMac, clientKey, clientMac, sha1.New)
	require.NoError(t, err)

	payload := []byte("mac then encrypt")
	rec, raw := applicationDataRecord(t, payload)

	encrypted, err := client.Encrypt(rec, raw, 0)
	require.NoError(t, err)

	decrypted, err := server.Decrypt(rec.Header, encrypted, 0)
	require.NoError(t, err)
	assert.Equal(t, payload, decrypted[recordlayer.HeaderSize:])
}

func TestCBCTamperedRecord(t *testing.T) {
	clientKey, clientMac := mustRandom(t, 16), mustRandom(t, 20)
	serverKey, serverMac := mustRandom(t, 16), mustRandom(t, 20)

	client, err := NewCBC(clientKey, clientMac, serverKey, serverMac, sha1.New)
	require.NoError(t, err)
	server, err := NewCBC(serverKey, serverMac, clientKey, clientMac, sha1.New)
	require.NoError(t, err)

	rec, raw := applicationDataRecord(t, []byte("tamper target"))

	encrypted, err := client.Encrypt(rec, raw, 0)
	require.NoError(t, err)
	encrypted[len(encrypted)-1] ^= 0xff

	_, err = server.Decrypt(rec.Header, encrypted, 0)
	assert.ErrorIs(t, err, errInvalidMAC)
}

// forgedCBCRecord CBC-encrypts a record whose plaintext is lastByte
// repeated, bypassing the MAC and padding a well behaved peer would
// produce.
func forgedCBCRecord(t *testing.T, key []byte, lastByte byte, blocks int) (recordlayer.Header, []byte) {
	t.Helper()

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	plain := make([]byte, blocks*block.BlockSize())
	for i := range plain {
		plain[i] = lastByte
	}
	iv := mustRandom(t, block.BlockSize())
	encrypted := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, plain)

	body := append(iv, encrypted...)
	header := recordlayer.Header{
		ContentType: protocol.ContentTypeApplicationData,
		Version:     protocol.Version1_2,
		ContentLen:  uint16(len(body)),
	}
	rawHeader, err := header.Marshal()
	require.NoError(t, err)

	return header, append(rawHeader, body...)
}

func TestCBCForgedPaddingLength(t *testing.T) {
	clientKey, clientMac := mustRandom(t, 16), mustRandom(t, 20)
	serverKey, serverMac := mustRandom(t, 16), mustRandom(t, 20)

	client, err := NewCBC(clientKey, clientMac, serverKey, serverMac, sha1.New)
	require.NoError(t, err)

	// Claimed padding length far past the end of the record
	header, raw := forgedCBCRecord(t, serverKey, 250, 2)
	_, err = client.Decrypt(header, raw, 0)
	assert.ErrorIs(t, err, errInvalidMAC)

	// Well formed padding that swallows part of the MAC
	header, raw = forgedCBCRecord(t, serverKey, 0x0f, 2)
	_, err = client.Decrypt(header, raw, 0)
	assert.ErrorIs(t, err, errInvalidMAC)
}

func TestChaCha20Poly1305RoundTrip(t *testing.T) {
	clientKey, clientIV := mustRandom(t, 32), mustRandom(t, 12)
	serverKey, serverIV := mustRandom(t, 32), mustRandom(t, 12)

	client, err := NewChaCha20Poly1305(clientKey, clientIV, serverKey, serverIV)
	require.NoError(t, err)
	server, err := NewChaCha20Poly1305(serverKey, serverIV, clientKey, clientIV)
	require.NoError(t, err)

	payload := []byte("no explicit nonce here")
	rec, raw := applicationDataRecord(t, payload)

	encrypted, err := client.Encrypt(rec, raw, 3)
	require.NoError(t, err)

	decrypted, err := server.Decrypt(rec.Header, encrypted, 3)
	require.NoError(t, err)
	assert.Equal(t, payload, decrypted[recordlayer.HeaderSize:])
}

func TestExaminePadding(t *testing.T) {
	toRemove, good := examinePadding([]byte{0x01, 0x02, 0x03, 0x03, 0x03, 0x03})
	assert.Equal(t, byte(255), good)
	assert.Equal(t, 4, toRemove)

	_, good = examinePadding([]byte{0x01, 0x02, 0x03, 0x02, 0x03, 0x03})
	assert.Equal(t, byte(0), good)
}
