// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const (
	// CodeExcluded marks a wheel skipped because the caller excluded it.
	CodeExcluded Code = "excluded"
	// CodeSubdirectory marks a directory entry that was not descended into.
	CodeSubdirectory Code = "subdirectory_skipped"
	// CodeNotWheel marks a regular file without the wheel extension.
	CodeNotWheel Code = "not_a_wheel"
)

type (
	// Code is a machine-readable identifier for a scan diagnostic.
	Code string

	// Diagnostic records a directory entry the scanner passed over. Diagnostics
	// are returned to callers (rather than logged here) so the CLI decides how
	// loudly to render them.
	Diagnostic struct {
		Code    Code
		Path    types.FilesystemPath
		Message string
	}

	// Result bundles the candidate packages with scan diagnostics.
	Result struct {
		Packages    []*wheel.Package
		Diagnostics []Diagnostic
	}
)
