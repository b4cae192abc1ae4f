// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath.
package fspath

import (
	"fmt"
	"path/filepath"

	"github.com/wheelpack/wheelpack/pkg/types"
)

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as file names returned by a directory listing.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Normalize returns the absolute, cleaned form of p so that "a.whl",
// "./a.whl" and "dir/../a.whl" compare equal. If the working directory
// cannot be determined the cleaned relative form is returned.
func Normalize(p types.FilesystemPath) types.FilesystemPath {
	abs, err := Abs(p)
	if err != nil {
		return Clean(p)
	}
	return Clean(abs)
}

// Same reports whether a and b name the same location after normalization.
func Same(a, b types.FilesystemPath) bool {
	return Normalize(a) == Normalize(b)
}
