// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems wheelpack distinguishes.
// The installer script format defaults to a batch file on Windows and to a
// POSIX shell script everywhere else.
package platform
