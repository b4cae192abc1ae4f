// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// Win32 error codes reported by ReadDirectoryChangesW once the wheel
// directory handle is unusable.
const (
	errnoTooManyOpenFiles = syscall.Errno(4)
	errnoInvalidHandle    = syscall.Errno(6)
	errnoNotEnoughMemory  = syscall.Errno(8)
)

var fatalErrnos = []syscall.Errno{errnoTooManyOpenFiles, errnoInvalidHandle, errnoNotEnoughMemory}
