// SPDX-License-Identifier: MPL-2.0

// Package emit writes the artifacts of a successful plan: an installer
// script that runs one pip install per package in order, and an optional
// machine-readable manifest of the bundle.
package emit
