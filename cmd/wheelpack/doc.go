// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for wheelpack.
//
// The plan command drives a full run: it reads the root wheel, scans the
// search directory for candidate wheels, asks the target environment which
// packages are installed, resolves the dependency closure, orders it and
// writes the installer script.
package cmd
