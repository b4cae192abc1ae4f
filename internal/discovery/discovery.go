// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

// Scanner reads candidate wheels from a directory.
type Scanner struct {
	fs afero.Fs
}

// New creates a Scanner over fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scanner{fs: fs}
}

// Scan returns a Package for every wheel directly inside dir, skipping any
// path in exclude. Paths are compared after normalization, so "./a.whl",
// "x/../a.whl" and an absolute path to the same file all match.
//
// Candidates are returned in file-name order, which is the order the
// resolver uses to pick between two wheels of the same package.
func (s *Scanner) Scan(dir types.FilesystemPath, exclude ...types.FilesystemPath) (Result, error) {
	if err := dir.Validate(); err != nil {
		return Result{}, fmt.Errorf("scan directory: %w", err)
	}

	excluded := make(map[types.FilesystemPath]bool, len(exclude))
	for _, p := range exclude {
		excluded[fspath.Normalize(p)] = true
	}

	entries, err := afero.ReadDir(s.fs, string(dir))
	if err != nil {
		return Result{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var res Result
	for _, entry := range entries {
		path := fspath.JoinStr(dir, entry.Name())

		if entry.IsDir() {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code: CodeSubdirectory, Path: path, Message: "subdirectories are not scanned",
			})
			continue
		}
		if path.Ext() != wheel.Ext {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code: CodeNotWheel, Path: path, Message: "not a " + wheel.Ext + " file",
			})
			continue
		}
		if excluded[fspath.Normalize(path)] {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Code: CodeExcluded, Path: path, Message: "excluded by caller",
			})
			continue
		}

		pkg, err := wheel.Read(s.fs, path)
		if err != nil {
			return Result{}, err
		}
		res.Packages = append(res.Packages, pkg)
	}

	return res, nil
}

// Scan is a convenience wrapper around New(fs).Scan.
func Scan(fs afero.Fs, dir types.FilesystemPath, exclude ...types.FilesystemPath) (Result, error) {
	return New(fs).Scan(dir, exclude...)
}
