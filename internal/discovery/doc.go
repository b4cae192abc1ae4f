// SPDX-License-Identifier: MPL-2.0

// Package discovery finds candidate wheel archives in a directory.
//
// The scan is non-recursive: only files directly inside the directory whose
// extension is ".whl" are read. Every candidate is parsed eagerly and one
// unreadable archive fails the whole scan, since silently skipping it could
// hide a usable dependency. Entries that were passed over (subdirectories,
// excluded paths, other file types) are returned as Diagnostics so the CLI
// can show them under --verbose.
package discovery
