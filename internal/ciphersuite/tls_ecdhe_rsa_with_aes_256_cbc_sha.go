// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSEcdheRsaWithAes256CbcSha implements the
// TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA CipherSuite.
type TLSEcdheRsaWithAes256CbcSha struct {
	AesCbcSha
}

// NewTLSEcdheRsaWithAes256CbcSha constructs the CipherSuite.
func NewTLSEcdheRsaWithAes256CbcSha() *TLSEcdheRsaWithAes256CbcSha {
	return &TLSEcdheRsaWithAes256CbcSha{
		AesCbcSha: newAesCbcSha(TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA, KeyExchangeAlgorithmEcdhe, 32),
	}
}
