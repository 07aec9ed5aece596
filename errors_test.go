package tls12

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/conduitsec/tls12/pkg/protocol/alert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetErrorPassthrough(t *testing.T) {
	// These must survive translation untouched so callers can match on them
	for _, err := range []error{io.EOF, context.Canceled, context.DeadlineExceeded} {
		assert.Equal(t, err, netError(err)) //nolint:testifylint
	}
}

func TestNetErrorFatalWrap(t *testing.T) {
	plain := errors.New("something broke") //nolint:err113
	translated := netError(plain)

	var fatal *FatalError
	require.ErrorAs(t, translated, &fatal)
	assert.ErrorIs(t, translated, plain)

	var netErr net.Error
	require.ErrorAs(t, translated, &netErr)
	assert.False(t, netErr.Timeout())
	assert.False(t, fatal.Temporary())
}

func TestNetErrorKeepsNetError(t *testing.T) {
	opErr := &net.OpError{Op: "read", Net: "tcp", Err: errors.New("reset")} //nolint:err113
	assert.Equal(t, error(opErr), netError(opErr))                         //nolint:testifylint
}

func TestHandshakeErrorUnwrap(t *testing.T) {
	err := &HandshakeError{Err: errVerifyDataMismatch}
	assert.ErrorIs(t, err, errVerifyDataMismatch)
	assert.False(t, err.Timeout())

	timeoutErr := &HandshakeError{Err: errDeadlineExceeded}
	assert.True(t, timeoutErr.Timeout())
	assert.ErrorIs(t, timeoutErr, context.DeadlineExceeded)
}

func TestAlertErrorIs(t *testing.T) {
	closeNotify := &alertError{&alert.Alert{Level: alert.Warning, Description: alert.CloseNotify}}
	badMac := &alertError{&alert.Alert{Level: alert.Fatal, Description: alert.BadRecordMac}}

	assert.ErrorIs(t, closeNotify, &alertError{&alert.Alert{Level: alert.Warning, Description: alert.CloseNotify}})
	assert.NotErrorIs(t, closeNotify, badMac)

	assert.True(t, closeNotify.IsFatalOrCloseNotify())
	assert.True(t, badMac.IsFatalOrCloseNotify())
	warning := &alertError{&alert.Alert{Level: alert.Warning, Description: alert.NoRenegotiation}}
	assert.False(t, warning.IsFatalOrCloseNotify())
}

func TestInvalidCipherSuiteErrorIs(t *testing.T) {
	err := &invalidCipherSuiteError{id: 0x1234}
	assert.ErrorIs(t, err, &invalidCipherSuiteError{id: 0x1234})
	assert.NotErrorIs(t, err, &invalidCipherSuiteError{id: 0x4321})
	assert.Contains(t, err.Error(), "4660")
}
