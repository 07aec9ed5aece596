// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSEcdheEcdsaWithAes256CbcSha implements the
// TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA CipherSuite.
type TLSEcdheEcdsaWithAes256CbcSha struct {
	AesCbcSha
}

// NewTLSEcdheEcdsaWithAes256CbcSha constructs the CipherSuite.
func NewTLSEcdheEcdsaWithAes256CbcSha() *TLSEcdheEcdsaWithAes256CbcSha {
	return &TLSEcdheEcdsaWithAes256CbcSha{
		AesCbcSha: newAesCbcSha(TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA, KeyExchangeAlgorithmEcdhe, 32),
	}
}
