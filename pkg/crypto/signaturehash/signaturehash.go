// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package signaturehash provides the SignatureHashAlgorithm as defined in TLS 1.2
package signaturehash

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"errors"

	"github.com/conduitsec/tls12/pkg/crypto/hash"
	"github.com/conduitsec/tls12/pkg/crypto/signature"
)

var errInvalidSignatureAlgorithm = errors.New("invalid signature algorithm")

// Algorithm is a signature/hash algorithm pair which may be used in
// digital signatures.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.1.4.1
type Algorithm struct {
	Hash      hash.Algorithm
	Signature signature.Algorithm
}

// Algorithms are all the known SignatureHash Algorithms, ordered by
// preference.
func Algorithms() []Algorithm {
	return []Algorithm{
		{hash.SHA256, signature.ECDSA},
		{hash.SHA384, signature.ECDSA},
		{hash.SHA512, signature.ECDSA},
		{hash.SHA256, signature.RSA},
		{hash.SHA384, signature.RSA},
		{hash.SHA512, signature.RSA},
		{hash.SHA1, signature.RSA},
	}
}

// IsCompatible checks that the peer's public key can produce signatures
// under this scheme.
func (a *Algorithm) IsCompatible(publicKey interface{}) bool {
	switch publicKey.(type) {
	case *ecdsa.PublicKey:
		return a.Signature == signature.ECDSA
	case *rsa.PublicKey:
		return a.Signature == signature.RSA
	default:
		return false
	}
}

// FromCertificate maps x509.SignatureAlgorithm to the corresponding Algorithm.
func FromCertificate(cert *x509.Certificate) (Algorithm, error) {
	switch cert.SignatureAlgorithm {
	case x509.SHA256WithRSA:
		return Algorithm{hash.SHA256, signature.RSA}, nil
	case x509.SHA384WithRSA:
		return Algorithm{hash.SHA384, signature.RSA}, nil
	case x509.SHA512WithRSA:
		return Algorithm{hash.SHA512, signature.RSA}, nil
	case x509.ECDSAWithSHA256:
		return Algorithm{hash.SHA256, signature.ECDSA}, nil
	case x509.ECDSAWithSHA384:
		return Algorithm{hash.SHA384, signature.ECDSA}, nil
	case x509.ECDSAWithSHA512:
		return Algorithm{hash.SHA512, signature.ECDSA}, nil
	case x509.SHA1WithRSA:
		return Algorithm{hash.SHA1, signature.RSA}, nil
	case x509.ECDSAWithSHA1:
		return Algorithm{hash.SHA1, signature.ECDSA}, nil
	default:
		return Algorithm{}, errInvalidSignatureAlgorithm
	}
}
