// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package ciphersuite provides the TLS 1.2 cipher suites we implement.
package ciphersuite

import (
	"errors"
	"fmt"

	"github.com/conduitsec/tls12/internal/ciphersuite/types"
	"github.com/conduitsec/tls12/pkg/protocol"
)

var (
	errCipherSuiteNotInit = &protocol.TemporaryError{Err: errors.New("CipherSuite has not been initialized")} //nolint:err113
	errNilMasterSecret    = &protocol.FatalError{Err: errors.New("master secret is nil")}                     //nolint:err113
)

// ID is an ID for our supported CipherSuites.
type ID uint16

// Supported Cipher Suites.
const (
	TLS_RSA_WITH_AES_128_CBC_SHA ID = 0x002f //nolint:revive,stylecheck

	TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA   ID = 0xc013 //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA   ID = 0xc014 //nolint:revive,stylecheck
	TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA ID = 0xc00a //nolint:revive,stylecheck

	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 ID = 0xc02b //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256   ID = 0xc02f //nolint:revive,stylecheck

	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256 ID = 0xcca8 //nolint:revive,stylecheck
)

func (i ID) String() string {
	switch i {
	case TLS_RSA_WITH_AES_128_CBC_SHA:
		return "TLS_RSA_WITH_AES_128_CBC_SHA"
	case TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA:
		return "TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA"
	case TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA:
		return "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA"
	case TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA:
		return "TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA"
	case TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256:
		return "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256"
	case TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256:
		return "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"
	case TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256:
		return "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256"
	default:
		return fmt.Sprintf("unknown(%v)", uint16(i))
	}
}

// AuthenticationType controls what authentication method is using during the handshake.
type AuthenticationType int

// AuthenticationType Enums.
const (
	AuthenticationTypeCertificate AuthenticationType = iota + 1
	AuthenticationTypeAnonymous
)

// KeyExchangeAlgorithm controls what exchange algorithm is using during the handshake.
type KeyExchangeAlgorithm = types.KeyExchangeAlgorithm

// KeyExchangeAlgorithm Enums.
const (
	KeyExchangeAlgorithmNone  = types.KeyExchangeAlgorithmNone
	KeyExchangeAlgorithmRsa   = types.KeyExchangeAlgorithmRsa
	KeyExchangeAlgorithmEcdhe = types.KeyExchangeAlgorithmEcdhe
)
