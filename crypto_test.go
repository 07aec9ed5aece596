package tls12

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"testing"

	"github.com/conduitsec/tls12/pkg/crypto/elliptic"
	"github.com/conduitsec/tls12/pkg/crypto/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKeyMessage(t *testing.T) {
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	for i := range clientRandom {
		clientRandom[i] = byte(i)
		serverRandom[i] = byte(0xff - i)
	}
	publicKey := []byte{0x0a, 0x0b, 0x0c, 0x0d}

	message := valueKeyMessage(clientRandom, serverRandom, publicKey, elliptic.X25519)
	require.Len(t, message, 32+32+4+len(publicKey))

	assert.Equal(t, clientRandom, message[:32])
	assert.Equal(t, serverRandom, message[32:64])
	// named_curve, x25519, pubkey length
	assert.Equal(t, []byte{0x03, 0x00, 0x1d, 0x04}, message[64:68])
	assert.Equal(t, publicKey, message[68:])
}

func TestVerifyKeySignature(t *testing.T) {
	key, certDER := generateTestCertificate(t)

	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	publicKey := make([]byte, 32)
	message := valueKeyMessage(clientRandom, serverRandom, publicKey, elliptic.X25519)

	digest := sha256.Sum256(message)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	assert.NoError(t, verifyKeySignature(message, sig, hash.SHA256, [][]byte{certDER}))

	// A signature over different params must not verify
	tampered := append([]byte{}, message...)
	tampered[0] ^= 0xff
	assert.Error(t, verifyKeySignature(tampered, sig, hash.SHA256, [][]byte{certDER}))

	assert.ErrorIs(t, verifyKeySignature(message, nil, hash.SHA256, [][]byte{certDER}), errKeySignatureMismatch)
}

func TestRSAPreMasterSecret(t *testing.T) {
	key, certDER := generateTestCertificate(t)

	preMasterSecret, err := newRSAPreMasterSecret()
	require.NoError(t, err)
	require.Len(t, preMasterSecret, 48)
	// Leading bytes carry the offered client version
	assert.Equal(t, []byte{0x03, 0x03}, preMasterSecret[:2])

	encrypted, err := encryptRSAPreMasterSecret([][]byte{certDER}, preMasterSecret)
	require.NoError(t, err)

	decrypted, err := rsa.DecryptPKCS1v15(nil, key, encrypted)
	require.NoError(t, err)
	assert.Equal(t, preMasterSecret, decrypted)
}

func TestLoadCertsEmpty(t *testing.T) {
	_, err := loadCerts(nil)
	assert.ErrorIs(t, err, errInvalidCertificate)
}
