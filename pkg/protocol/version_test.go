// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionEqual(t *testing.T) {
	assert.True(t, Version1_2.Equal(Version{Major: 0x03, Minor: 0x03}))
	assert.False(t, Version1_2.Equal(Version1_0))
}

func TestVersionIsSupportedBytes(t *testing.T) {
	assert.True(t, IsSupportedBytes(0x03, 0x01))
	assert.True(t, IsSupportedBytes(0x03, 0x03))
	assert.False(t, IsSupportedBytes(0x03, 0x04))
	assert.False(t, IsSupportedBytes(0xfe, 0xfd))
}
