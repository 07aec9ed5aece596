// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package elliptic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyAgreement(t *testing.T) {
	for curve := range Curves() {
		curve := curve
		t.Run(curve.String(), func(t *testing.T) {
			local, err := GenerateKeypair(curve)
			require.NoError(t, err)
			remote, err := GenerateKeypair(curve)
			require.NoError(t, err)

			localSecret, err := SharedSecret(local, remote.PublicKey)
			require.NoError(t, err)
			remoteSecret, err := SharedSecret(remote, local.PublicKey)
			require.NoError(t, err)

			assert.Equal(t, localSecret, remoteSecret)
			assert.NotEmpty(t, localSecret)
		})
	}
}

func TestGenerateKeypairInvalidCurve(t *testing.T) {
	_, err := GenerateKeypair(Curve(0x0019))
	assert.ErrorIs(t, err, errInvalidNamedCurve)
}
