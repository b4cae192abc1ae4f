// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"errors"
	"strings"

	"github.com/wheelpack/wheelpack/pkg/types"
)

// Reasons an archive is rejected.
const (
	ReasonUnreadable        Reason = "unreadable archive"
	ReasonMetadataMissing   Reason = "no .dist-info/METADATA record"
	ReasonMetadataAmbiguous Reason = "more than one .dist-info/METADATA record"
	ReasonEncoding          Reason = "METADATA is not valid UTF-8"
	ReasonMissingField      Reason = "missing required metadata field"
	ReasonDuplicateField    Reason = "required metadata field given more than once"
	ReasonBadRequirement    Reason = "malformed Requires-Dist line"
)

// ErrInvalidArchive is the sentinel error wrapped by InvalidArchiveError.
var ErrInvalidArchive = errors.New("invalid package archive")

type (
	// Reason classifies why an archive was rejected.
	Reason string

	// InvalidArchiveError reports an archive that cannot yield a Package.
	// It matches ErrInvalidArchive with errors.Is and unwraps to the
	// underlying I/O or zip error, if any.
	InvalidArchiveError struct {
		Path   types.FilesystemPath
		Reason Reason
		// Detail names the offending field, entry or line.
		Detail string
		Err    error
	}
)

// Error implements the error interface.
func (e *InvalidArchiveError) Error() string {
	var msg strings.Builder
	msg.WriteString(ErrInvalidArchive.Error())
	if e.Path != "" {
		msg.WriteString(" ")
		msg.WriteString(string(e.Path))
	}
	msg.WriteString(": ")
	msg.WriteString(string(e.Reason))
	if e.Detail != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Detail)
	}
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	return msg.String()
}

// Is reports whether target is ErrInvalidArchive.
func (e *InvalidArchiveError) Is(target error) bool { return target == ErrInvalidArchive }

// Unwrap returns the underlying cause.
func (e *InvalidArchiveError) Unwrap() error { return e.Err }

// withPath attaches path to an InvalidArchiveError produced before the
// archive location was known.
func withPath(err error, path types.FilesystemPath) error {
	var ie *InvalidArchiveError
	if errors.As(err, &ie) && ie.Path == "" {
		cp := *ie
		cp.Path = path
		return &cp
	}
	return err
}
