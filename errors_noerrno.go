//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris && !windows

// For systems without syscall errno.

package tls12

import (
	"os"
)

func isOpErrorTemporary(*os.SyscallError) bool {
	return false
}
