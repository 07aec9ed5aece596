// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSEcdheRsaWithAes128GcmSha256 implements the
// TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256 CipherSuite.
type TLSEcdheRsaWithAes128GcmSha256 struct {
	Aes128GcmSha256
}

// NewTLSEcdheRsaWithAes128GcmSha256 constructs the CipherSuite.
func NewTLSEcdheRsaWithAes128GcmSha256() *TLSEcdheRsaWithAes128GcmSha256 {
	return &TLSEcdheRsaWithAes128GcmSha256{
		Aes128GcmSha256: newAes128GcmSha256(TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256, KeyExchangeAlgorithmEcdhe),
	}
}
