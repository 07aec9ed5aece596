// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package prf

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterSecret(t *testing.T) {
	preMasterSecret := make([]byte, 48)
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	for i := range clientRandom {
		clientRandom[i] = byte(i)
		serverRandom[i] = byte(0xff - i)
	}

	masterSecret, err := MasterSecret(preMasterSecret, clientRandom, serverRandom, sha256.New)
	require.NoError(t, err)
	assert.Len(t, masterSecret, MasterSecretLength)

	// Derivation must be deterministic
	again, err := MasterSecret(preMasterSecret, clientRandom, serverRandom, sha256.New)
	require.NoError(t, err)
	assert.Equal(t, masterSecret, again)

	// And sensitive to the random ordering
	swapped, err := MasterSecret(preMasterSecret, serverRandom, clientRandom, sha256.New)
	require.NoError(t, err)
	assert.NotEqual(t, masterSecret, swapped)
}

func TestGenerateEncryptionKeys(t *testing.T) {
	masterSecret := make([]byte, MasterSecretLength)
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	for i := range clientRandom {
		clientRandom[i] = byte(i)
		serverRandom[i] = byte(i * 2)
	}

	const macLen, keyLen, ivLen = 20, 16, 16

	keys, err := GenerateEncryptionKeys(masterSecret, clientRandom, serverRandom, macLen, keyLen, ivLen, sha256.New)
	require.NoError(t, err)

	assert.Len(t, keys.ClientMACKey, macLen)
	assert.Len(t, keys.ServerMACKey, macLen)
	assert.Len(t, keys.ClientWriteKey, keyLen)
	assert.Len(t, keys.ServerWriteKey, keyLen)
	assert.Len(t, keys.ClientWriteIV, ivLen)
	assert.Len(t, keys.ServerWriteIV, ivLen)

	// The key block is sliced in RFC 5246 section 6.3 order from a
	// single P_hash expansion seeded server random first
	seed := append(append([]byte("key expansion"), serverRandom...), clientRandom...)
	keyBlock, err := PHash(masterSecret, seed, 2*(macLen+keyLen+ivLen), sha256.New)
	require.NoError(t, err)

	flat := append([]byte{}, keys.ClientMACKey...)
	flat = append(flat, keys.ServerMACKey...)
	flat = append(flat, keys.ClientWriteKey...)
	flat = append(flat, keys.ServerWriteKey...)
	flat = append(flat, keys.ClientWriteIV...)
	flat = append(flat, keys.ServerWriteIV...)
	assert.Equal(t, keyBlock, flat)
}

func TestVerifyData(t *testing.T) {
	masterSecret := make([]byte, MasterSecretLength)
	transcript := []byte("handshake messages in wire order")

	client, err := VerifyDataClient(masterSecret, transcript, sha256.New)
	require.NoError(t, err)
	assert.Len(t, client, VerifyDataLength)

	server, err := VerifyDataServer(masterSecret, transcript, sha256.New)
	require.NoError(t, err)
	assert.Len(t, server, VerifyDataLength)

	// Same transcript, different labels
	assert.NotEqual(t, client, server)
}

func TestPHashLength(t *testing.T) {
	// Lengths that do and do not land on a hash boundary
	for _, n := range []int{1, 31, 32, 33, 100} {
		out, err := PHash([]byte("secret"), []byte("seed"), n, sha256.New)
		require.NoError(t, err)
		assert.Len(t, out, n)
	}
}
