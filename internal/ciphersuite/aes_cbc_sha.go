// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"fmt"
	"hash"
	"sync/atomic"

	"github.com/conduitsec/tls12/pkg/crypto/ciphersuite"
	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

// AesCbcSha is a base class used by the AES-CBC-SHA ciphers. The record
// MAC is always HMAC-SHA1, the PRF is the TLS 1.2 default of SHA-256.
type AesCbcSha struct {
	cbc atomic.Value // *ciphersuite.CBC

	id     ID
	kx     KeyExchangeAlgorithm
	keyLen int
}

func newAesCbcSha(id ID, kx KeyExchangeAlgorithm, keyLen int) AesCbcSha {
	return AesCbcSha{id: id, kx: kx, keyLen: keyLen}
}

// ID returns the ID of the CipherSuite.
func (c *AesCbcSha) ID() ID {
	return c.id
}

// String returns the string representation of the cipher's ID.
func (c *AesCbcSha) String() string {
	return c.id.String()
}

// ECC uses Elliptic Curve Cryptography.
func (c *AesCbcSha) ECC() bool {
	return c.kx.Has(KeyExchangeAlgorithmEcdhe)
}

// KeyExchangeAlgorithm controls what key exchange algorithm is using during the handshake.
func (c *AesCbcSha) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return c.kx
}

// AuthenticationType controls what authentication method is using during the handshake.
func (c *AesCbcSha) AuthenticationType() AuthenticationType {
	return AuthenticationTypeCertificate
}

// HashFunc returns the hashing func for this CipherSuite.
func (c *AesCbcSha) HashFunc() func() hash.Hash {
	return sha256.New
}

// IsInitialized returns if the CipherSuite has keying material and can
// encrypt/decrypt packets.
func (c *AesCbcSha) IsInitialized() bool {
	return c.cbc.Load() != nil
}

// Init initializes the internal Cipher with keying material.
func (c *AesCbcSha) Init(masterSecret, clientRandom, serverRandom []byte, isClient bool) error {
	const (
		prfMacLen = 20 // HMAC-SHA1
		prfIvLen  = 16
	)
	if masterSecret == nil {
		return errNilMasterSecret
	}

	keys, err := prf.GenerateEncryptionKeys(
		masterSecret, clientRandom, serverRandom,
		prfMacLen, c.keyLen, prfIvLen, c.HashFunc(),
	)
	if err != nil {
		return err
	}

	var cbc *ciphersuite.CBC
	if isClient {
		cbc, err = ciphersuite.NewCBC(
			keys.ClientWriteKey, keys.ClientMACKey,
			keys.ServerWriteKey, keys.ServerMACKey,
			sha1.New,
		)
	} else {
		cbc, err = ciphersuite.NewCBC(
			keys.ServerWriteKey, keys.ServerMACKey,
			keys.ClientWriteKey, keys.ClientMACKey,
			sha1.New,
		)
	}
	if err != nil {
		return err
	}
	c.cbc.Store(cbc)

	return nil
}

// Encrypt encrypts a single TLS RecordLayer.
func (c *AesCbcSha) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.cbc.Load().(*ciphersuite.CBC)
	if !ok {
		return nil, fmt.Errorf("%w, unable to encrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Encrypt(pkt, raw, sequenceNumber)
}

// Decrypt decrypts a single TLS RecordLayer.
func (c *AesCbcSha) Decrypt(h recordlayer.Header, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.cbc.Load().(*ciphersuite.CBC)
	if !ok {
		return nil, fmt.Errorf("%w, unable to decrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Decrypt(h, raw, sequenceNumber)
}
