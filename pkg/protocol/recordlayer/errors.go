// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package recordlayer

import (
	"errors"

	"github.com/conduitsec/tls12/pkg/protocol"
)

// Typed errors.
var (
	// ErrInvalidContentType signals a record whose first byte is not a
	// known TLS content type.
	ErrInvalidContentType = &protocol.TemporaryError{Err: errors.New("invalid content type")} //nolint:err113

	// ErrRecordTooLarge signals a record whose declared or produced length
	// exceeds the RFC 5246 limits.
	ErrRecordTooLarge = &protocol.FatalError{Err: errors.New("record length exceeds maximum")} //nolint:err113

	// ErrTruncatedRecord signals a record whose header declares more bytes
	// than the stream delivered.
	ErrTruncatedRecord = &protocol.FatalError{Err: errors.New("record truncated by stream close")} //nolint:err113

	errBufferTooSmall     = &protocol.TemporaryError{Err: errors.New("buffer is too small")}        //nolint:err113
	errUnsupportedVersion = &protocol.FatalError{Err: errors.New("unsupported protocol version")}   //nolint:err113
	errLengthMismatch     = &protocol.InternalError{Err: errors.New("declared and actual record length differ")} //nolint:err113
)
