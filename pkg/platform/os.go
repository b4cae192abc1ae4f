// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether goos (a runtime.GOOS value) is Windows.
func IsWindows(goos string) bool {
	return strings.EqualFold(goos, Windows)
}
