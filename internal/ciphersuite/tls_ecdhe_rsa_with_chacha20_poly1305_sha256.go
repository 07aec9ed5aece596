// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sync/atomic"

	"github.com/conduitsec/tls12/pkg/crypto/ciphersuite"
	"github.com/conduitsec/tls12/pkg/crypto/prf"
	"github.com/conduitsec/tls12/pkg/protocol/recordlayer"
)

// TLSEcdheRsaWithChaCha20Poly1305Sha256 implements the
// TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256 CipherSuite.
type TLSEcdheRsaWithChaCha20Poly1305Sha256 struct {
	chacha atomic.Value // *ciphersuite.ChaCha20Poly1305
}

// ID returns the ID of the CipherSuite.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) ID() ID {
	return TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256
}

// String returns the string representation of the cipher's ID.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) String() string {
	return c.ID().String()
}

// ECC uses Elliptic Curve Cryptography.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) ECC() bool {
	return true
}

// KeyExchangeAlgorithm controls what key exchange algorithm is using during the handshake.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return KeyExchangeAlgorithmEcdhe
}

// AuthenticationType controls what authentication method is using during the handshake.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) AuthenticationType() AuthenticationType {
	return AuthenticationTypeCertificate
}

// HashFunc returns the hashing func for this CipherSuite.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) HashFunc() func() hash.Hash {
	return sha256.New
}

// IsInitialized returns if the CipherSuite has keying material and can
// encrypt/decrypt packets.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) IsInitialized() bool {
	return c.chacha.Load() != nil
}

// Init initializes the internal Cipher with keying material.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) Init(masterSecret, clientRandom, serverRandom []byte, isClient bool) error {
	const (
		prfMacLen = 0
		prfKeyLen = 32
		prfIvLen  = 12
	)
	if masterSecret == nil {
		return errNilMasterSecret
	}

	keys, err := prf.GenerateEncryptionKeys(
		masterSecret, clientRandom, serverRandom,
		prfMacLen, prfKeyLen, prfIvLen, c.HashFunc(),
	)
	if err != nil {
		return err
	}

	var chacha *ciphersuite.ChaCha20Poly1305
	if isClient {
		chacha, err = ciphersuite.NewChaCha20Poly1305(
			keys.ClientWriteKey, keys.ClientWriteIV,
			keys.ServerWriteKey, keys.ServerWriteIV,
		)
	} else {
		chacha, err = ciphersuite.NewChaCha20Poly1305(
			keys.ServerWriteKey, keys.ServerWriteIV,
			keys.ClientWriteKey, keys.ClientWriteIV,
		)
	}
	if err != nil {
		return err
	}
	c.chacha.Store(chacha)

	return nil
}

// Encrypt encrypts a single TLS RecordLayer.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.chacha.Load().(*ciphersuite.ChaCha20Poly1305)
	if !ok {
		return nil, fmt.Errorf("%w, unable to encrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Encrypt(pkt, raw, sequenceNumber)
}

// Decrypt decrypts a single TLS RecordLayer.
func (c *TLSEcdheRsaWithChaCha20Poly1305Sha256) Decrypt(h recordlayer.Header, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.chacha.Load().(*ciphersuite.ChaCha20Poly1305)
	if !ok {
		return nil, fmt.Errorf("%w, unable to decrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Decrypt(h, raw, sequenceNumber)
}
