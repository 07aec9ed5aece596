// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package types provides types shared by the cipher suites and the
// handshake message codec.
package types

// KeyExchangeAlgorithm controls how the premaster secret is agreed on.
// It decides which ClientKeyExchange encoding is used and whether a
// ServerKeyExchange message is expected at all.
type KeyExchangeAlgorithm int

// KeyExchangeAlgorithm enums.
const (
	KeyExchangeAlgorithmNone  KeyExchangeAlgorithm = 0
	KeyExchangeAlgorithmRsa   KeyExchangeAlgorithm = 1
	KeyExchangeAlgorithmEcdhe KeyExchangeAlgorithm = 2
)

// Has us a helper function for checking if a KeyExchangeAlgorithm is in a mask.
func (a KeyExchangeAlgorithm) Has(v KeyExchangeAlgorithm) bool {
	return (a & v) == v
}
