// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package protocol

import "errors"

// CompressionMethodID is the ID for a CompressionMethod.
type CompressionMethodID byte

const (
	// CompressionMethodNull is the only method we support, TLS compression
	// is a non-goal.
	CompressionMethodNull CompressionMethodID = 0
)

var errCompressionMethodUnknown = errors.New("unknown compression method")

// CompressionMethod represents a TLS compression method.
type CompressionMethod struct {
	ID CompressionMethodID
}

// CompressionMethods returns all supported CompressionMethods.
func CompressionMethods() map[CompressionMethodID]*CompressionMethod {
	return map[CompressionMethodID]*CompressionMethod{
		CompressionMethodNull: {ID: CompressionMethodNull},
	}
}

// DefaultCompressionMethods returns the compression methods we offer.
func DefaultCompressionMethods() []*CompressionMethod {
	return []*CompressionMethod{
		{ID: CompressionMethodNull},
	}
}

// DecodeCompressionMethods the given compression methods.
func DecodeCompressionMethods(buf []byte) ([]*CompressionMethod, error) {
	if len(buf) < 1 {
		return nil, errBufferTooSmall
	}
	compressionMethodsCount := int(buf[0])
	if len(buf) != compressionMethodsCount+1 {
		return nil, errBufferTooSmall
	}
	compressionMethods := []*CompressionMethod{}
	for i := 0; i < compressionMethodsCount; i++ {
		id := CompressionMethodID(buf[i+1])
		if _, ok := CompressionMethods()[id]; !ok {
			return nil, errCompressionMethodUnknown
		}
		compressionMethods = append(compressionMethods, &CompressionMethod{ID: id})
	}
	return compressionMethods, nil
}

// EncodeCompressionMethods the given compression methods.
func EncodeCompressionMethods(methods []*CompressionMethod) []byte {
	out := []byte{byte(len(methods))}
	for _, m := range methods {
		out = append(out, byte(m.ID))
	}
	return out
}
