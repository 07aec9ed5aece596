// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package ciphersuite

// TLSRsaWithAes128CbcSha implements the TLS_RSA_WITH_AES_128_CBC_SHA
// CipherSuite. The premaster secret is encrypted to the server's RSA
// key, no ServerKeyExchange is sent.
type TLSRsaWithAes128CbcSha struct {
	AesCbcSha
}

// NewTLSRsaWithAes128CbcSha constructs the CipherSuite.
func NewTLSRsaWithAes128CbcSha() *TLSRsaWithAes128CbcSha {
	return &TLSRsaWithAes128CbcSha{
		AesCbcSha: newAesCbcSha(TLS_RSA_WITH_AES_128_CBC_SHA, KeyExchangeAlgorithmRsa, 16),
	}
}
