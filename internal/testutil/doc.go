// SPDX-License-Identifier: MPL-2.0

// Package testutil builds wheel archives for tests from a WheelSpec, either
// on disk (WriteWheel) or on an afero filesystem (WriteWheelFs), so tests
// never depend on checked-in binaries.
package testutil
