// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSEcdheEcdsaWithAes128GcmSha256 implements the
// TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 CipherSuite.
type TLSEcdheEcdsaWithAes128GcmSha256 struct {
	Aes128GcmSha256
}

// NewTLSEcdheEcdsaWithAes128GcmSha256 constructs the CipherSuite.
func NewTLSEcdheEcdsaWithAes128GcmSha256() *TLSEcdheEcdsaWithAes128GcmSha256 {
	return &TLSEcdheEcdsaWithAes128GcmSha256{
		Aes128GcmSha256: newAes128GcmSha256(TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256, KeyExchangeAlgorithmEcdhe),
	}
}
