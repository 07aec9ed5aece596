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

// Aes128GcmSha256 is a base class used by the AES-128-GCM-SHA256 ciphers.
type Aes128GcmSha256 struct {
	gcm atomic.Value // *ciphersuite.GCM

	id ID
	kx KeyExchangeAlgorithm
}

func newAes128GcmSha256(id ID, kx KeyExchangeAlgorithm) Aes128GcmSha256 {
	return Aes128GcmSha256{id: id, kx: kx}
}

// ID returns the ID of the CipherSuite.
func (c *Aes128GcmSha256) ID() ID {
	return c.id
}

// String returns the string representation of the cipher's ID.
func (c *Aes128GcmSha256) String() string {
	return c.id.String()
}

// ECC uses Elliptic Curve Cryptography.
func (c *Aes128GcmSha256) ECC() bool {
	return true
}

// KeyExchangeAlgorithm controls what key exchange algorithm is using during the handshake.
func (c *Aes128GcmSha256) KeyExchangeAlgorithm() KeyExchangeAlgorithm {
	return c.kx
}

// AuthenticationType controls what authentication method is using during the handshake.
func (c *Aes128GcmSha256) AuthenticationType() AuthenticationType {
	return AuthenticationTypeCertificate
}

// HashFunc returns the hashing func for this CipherSuite.
func (c *Aes128GcmSha256) HashFunc() func() hash.Hash {
	return sha256.New
}

// IsInitialized returns if the CipherSuite has keying material and can
// encrypt/decrypt packets.
func (c *Aes128GcmSha256) IsInitialized() bool {
	return c.gcm.Load() != nil
}

// Init initializes the internal Cipher with keying material.
func (c *Aes128GcmSha256) Init(masterSecret, clientRandom, serverRandom []byte, isClient bool) error {
	const (
		prfMacLen = 0
		prfKeyLen = 16
		prfIvLen  = 4
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

	var gcm *ciphersuite.GCM
	if isClient {
		gcm, err = ciphersuite.NewGCM(
			keys.ClientWriteKey, keys.ClientWriteIV,
			keys.ServerWriteKey, keys.ServerWriteIV,
		)
	} else {
		gcm, err = ciphersuite.NewGCM(
			keys.ServerWriteKey, keys.ServerWriteIV,
			keys.ClientWriteKey, keys.ClientWriteIV,
		)
	}
	if err != nil {
		return err
	}
	c.gcm.Store(gcm)

	return nil
}

// Encrypt encrypts a single TLS RecordLayer.
func (c *Aes128GcmSha256) Encrypt(pkt *recordlayer.RecordLayer, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.gcm.Load().(*ciphersuite.GCM)
	if !ok {
		return nil, fmt.Errorf("%w, unable to encrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Encrypt(pkt, raw, sequenceNumber)
}

// Decrypt decrypts a single TLS RecordLayer.
func (c *Aes128GcmSha256) Decrypt(h recordlayer.Header, raw []byte, sequenceNumber uint64) ([]byte, error) {
	cipherSuite, ok := c.gcm.Load().(*ciphersuite.GCM)
	if !ok {
		return nil, fmt.Errorf("%w, unable to decrypt", errCipherSuiteNotInit)
	}

	return cipherSuite.Decrypt(h, raw, sequenceNumber)
}
