// SPDX-License-Identifier: MPL-2.0

// Package wheel reads package identity and declared dependencies out of
// wheel archives.
//
// A wheel is a zip archive carrying exactly one top-level
// "<name>-<version>.dist-info/METADATA" record. The record starts with a
// block of "Key: Value" header lines; the first line that is not a header
// (normally the blank separator before the long description) ends it.
//
//	pkg, err := wheel.Read(afero.NewOsFs(), "dist/app-1.0-py3-none-any.whl")
//	if err != nil {
//	    return err // *wheel.InvalidArchiveError for malformed archives
//	}
//	for _, dep := range pkg.Requires {
//	    fmt.Println(dep)
//	}
//
// Names compare case-insensitively through Key. Version constraints and
// environment markers on a dependency are kept as opaque text; nothing in
// this package evaluates them.
package wheel
