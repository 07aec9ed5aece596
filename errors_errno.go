//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || windows

// For systems having syscall errno.

package tls12

import (
	"errors"
	"os"
	"syscall"
)

func isOpErrorTemporary(err *os.SyscallError) bool {
	return errors.Is(err.Err, syscall.ECONNREFUSED)
}
