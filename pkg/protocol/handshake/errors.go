// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"errors"

	"github.com/conduitsec/tls12/pkg/protocol"
)

// Typed errors
var (
	errHandshakeMessageUnset    = &protocol.InternalError{Err: errors.New("handshake message unset, unable to marshal")} //nolint:err113
	errBufferTooSmall           = &protocol.TemporaryError{Err: errors.New("buffer is too small")}                       //nolint:err113
	errLengthMismatch           = &protocol.InternalError{Err: errors.New("data length and declared length do not match")}
	errInvalidClientKeyExchange = &protocol.FatalError{Err: errors.New("unable to determine if ClientKeyExchange is a public key or encrypted premaster secret")}
	errInvalidHashAlgorithm     = &protocol.FatalError{Err: errors.New("invalid hash algorithm")}
	errInvalidSignatureAlgo     = &protocol.FatalError{Err: errors.New("invalid signature algorithm")}
	errInvalidEllipticCurveType = &protocol.FatalError{Err: errors.New("invalid or unknown elliptic curve type")}
	errInvalidNamedCurve        = &protocol.FatalError{Err: errors.New("invalid named curve")}
	errCipherSuiteUnset         = &protocol.FatalError{Err: errors.New("server hello can not be created without a cipher suite")}
	errCompressionMethodUnset   = &protocol.FatalError{Err: errors.New("server hello can not be created without a compression method")}
	errInvalidCompressionMethod = &protocol.FatalError{Err: errors.New("invalid or unknown compression method")}
	errNotImplemented           = &protocol.InternalError{Err: errors.New("feature has not been implemented yet")}
)
