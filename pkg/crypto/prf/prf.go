// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package prf implements TLS 1.2 Pseudorandom functions
package prf

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/conduitsec/tls12/pkg/protocol"
)

const (
	masterSecretLabel     = "master secret"
	keyExpansionLabel     = "key expansion"
	verifyDataClientLabel = "client finished"
	verifyDataServerLabel = "server finished"

	// MasterSecretLength is the fixed size of a TLS 1.2 master secret.
	MasterSecretLength = 48
	// VerifyDataLength is the fixed size of the Finished verify_data.
	VerifyDataLength = 12
)

// HashFunc allows callers to decide what hash is used in the PRF.
type HashFunc func() hash.Hash

// EncryptionKeys is all the state needed for a TLS CipherSuite.
// The order of the fields is the order the key material is sliced out
// of the key block, per RFC 5246 section 6.3. The order is a protocol
// contract, not a free choice.
type EncryptionKeys struct {
	ClientMACKey   []byte
	ServerMACKey   []byte
	ClientWriteKey []byte
	ServerWriteKey []byte
	ClientWriteIV  []byte
	ServerWriteIV  []byte
}

func (e *EncryptionKeys) String() string {
	return fmt.Sprintf(`encryptionKeys:
- clientMACKey: %#v
- serverMACKey: %#v
- clientWriteKey: %#v
- serverWriteKey: %#v
- clientWriteIV: %#v
- serverWriteIV: %#v
`,
		e.ClientMACKey,
		e.ServerMACKey,
		e.ClientWriteKey,
		e.ServerWriteKey,
		e.ClientWriteIV,
		e.ServerWriteIV)
}

// PHash is PRF is the SHA-256 hash function is used for all cipher suites
// defined in this TLS 1.2 document and in TLS documents published prior to this
// document when TLS 1.2 is negotiated. New cipher suites MUST explicitly
// specify a PRF and, in general, SHOULD use the TLS PRF with SHA-256 or a
// stronger standard hash function.
//
//	   P_hash(secret, seed) = HMAC_hash(secret, A(1) + seed) +
//	                          HMAC_hash(secret, A(2) + seed) +
//	                          HMAC_hash(secret, A(3) + seed) + ...
//
//	A() is defined as:
//
//	   A(0) = seed
//	   A(i) = HMAC_hash(secret, A(i-1))
//
// https://tools.ietf.org/html/rfc5246#section-5
func PHash(secret, seed []byte, requestedLength int, h HashFunc) ([]byte, error) {
	hmacSHA256 := func(key, data []byte) ([]byte, error) {
		mac := hmac.New(h, key)
		if _, err := mac.Write(data); err != nil {
			return nil, err
		}
		return mac.Sum(nil), nil
	}

	var err error
	lastRound := seed
	out := []byte{}

	iterations := int(ceilDiv(requestedLength, h().Size()))
	for i := 0; i < iterations; i++ {
		lastRound, err = hmacSHA256(secret, lastRound)
		if err != nil {
			return nil, err
		}
		withSecret, err := hmacSHA256(secret, append(lastRound, seed...))
		if err != nil {
			return nil, err
		}
		out = append(out, withSecret...)
	}

	return out[:requestedLength], nil
}

// MasterSecret generates a TLS 1.2 MasterSecret.
func MasterSecret(preMasterSecret, clientRandom, serverRandom []byte, h HashFunc) ([]byte, error) {
	seed := append(append([]byte(masterSecretLabel), clientRandom...), serverRandom...)
	return PHash(preMasterSecret, seed, MasterSecretLength, h)
}

// GenerateEncryptionKeys is the final step TLS 1.2 PRF. Given all state
// generated so far generates all the encryption keys. Note the seed is
// server random then client random, the reverse of the master secret
// derivation.
func GenerateEncryptionKeys(masterSecret, clientRandom, serverRandom []byte, macLen, keyLen, ivLen int, h HashFunc) (*EncryptionKeys, error) {
	seed := append(append([]byte(keyExpansionLabel), serverRandom...), clientRandom...)
	keyMaterial, err := PHash(masterSecret, seed, (2*macLen)+(2*keyLen)+(2*ivLen), h)
	if err != nil {
		return nil, err
	}

	clientMACKey := keyMaterial[:macLen]
	keyMaterial = keyMaterial[macLen:]

	serverMACKey := keyMaterial[:macLen]
	keyMaterial = keyMaterial[macLen:]

	clientWriteKey := keyMaterial[:keyLen]
	keyMaterial = keyMaterial[keyLen:]

	serverWriteKey := keyMaterial[:keyLen]
	keyMaterial = keyMaterial[keyLen:]

	clientWriteIV := keyMaterial[:ivLen]
	keyMaterial = keyMaterial[ivLen:]

	serverWriteIV := keyMaterial[:ivLen]

	return &EncryptionKeys{
		ClientMACKey:   clientMACKey,
		ServerMACKey:   serverMACKey,
		ClientWriteKey: clientWriteKey,
		ServerWriteKey: serverWriteKey,
		ClientWriteIV:  clientWriteIV,
		ServerWriteIV:  serverWriteIV,
	}, nil
}

func prfVerifyData(masterSecret, handshakeBodies []byte, label string, hashFunc HashFunc) ([]byte, error) {
	h := hashFunc()
	if _, err := h.Write(handshakeBodies); err != nil {
		return nil, err
	}

	seed := append([]byte(label), h.Sum(nil)...)
	return PHash(masterSecret, seed, VerifyDataLength, hashFunc)
}

// VerifyDataClient is caller for VerifyData with the client label.
func VerifyDataClient(masterSecret, handshakeBodies []byte, h HashFunc) ([]byte, error) {
	return prfVerifyData(masterSecret, handshakeBodies, verifyDataClientLabel, h)
}

// VerifyDataServer is caller for VerifyData with the server label.
func VerifyDataServer(masterSecret, handshakeBodies []byte, h HashFunc) ([]byte, error) {
	return prfVerifyData(masterSecret, handshakeBodies, verifyDataServerLabel, h)
}

// Mac computes the MAC of a TLS 1.2 record:
//
//	MAC(MAC_write_key, seq_num + type + version + length + fragment)
//
// https://tools.ietf.org/html/rfc5246#section-6.2.3.1
func Mac(h HashFunc, sequenceNumber uint64, contentType protocol.ContentType, protocolVersion protocol.Version, payload, key []byte) ([]byte, error) {
	mac := hmac.New(h, key)

	msg := make([]byte, 13)
	binary.BigEndian.PutUint64(msg, sequenceNumber)
	msg[8] = byte(contentType)
	msg[9] = protocolVersion.Major
	msg[10] = protocolVersion.Minor
	binary.BigEndian.PutUint16(msg[11:], uint16(len(payload)))

	if _, err := mac.Write(msg); err != nil {
		return nil, err
	}
	if _, err := mac.Write(payload); err != nil {
		return nil, err
	}

	return mac.Sum(nil), nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
