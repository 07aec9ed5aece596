// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSEcdheRsaWithAes128CbcSha implements the
// TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA CipherSuite.
type TLSEcdheRsaWithAes128CbcSha struct {
	AesCbcSha
}

// NewTLSEcdheRsaWithAes128CbcSha constructs the CipherSuite.
func NewTLSEcdheRsaWithAes128CbcSha() *TLSEcdheRsaWithAes128CbcSha {
	return &TLSEcdheRsaWithAes128CbcSha{
		AesCbcSha: newAesCbcSha(TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA, KeyExchangeAlgorithmEcdhe, 16),
	}
}
