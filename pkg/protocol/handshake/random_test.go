// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomRoundTrip(t *testing.T) {
	r := Random{}
	assert.NoError(t, r.Populate())

	fixed := r.MarshalFixed()

	var parsed Random
	parsed.UnmarshalFixed(fixed)
	assert.Equal(t, r.RandomBytes, parsed.RandomBytes)
	assert.Equal(t, r.GMTUnixTime.Unix(), parsed.GMTUnixTime.Unix())
}

func TestRandomPopulateUnique(t *testing.T) {
	a, b := Random{}, Random{}
	assert.NoError(t, a.Populate())
	assert.NoError(t, b.Populate())
	assert.NotEqual(t, a.RandomBytes, b.RandomBytes)
}
