// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/wheelpack/wheelpack/pkg/platform"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const (
	// FormatSh is a POSIX shell script.
	FormatSh Format = "sh"
	// FormatBat is a Windows batch file.
	FormatBat Format = "bat"

	// DefaultInstaller is the command each script line starts with.
	DefaultInstaller = "pip install"

	scriptPrefix = "install_"
)

var (
	// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
	ErrInvalidFormat = errors.New("invalid script format")

	// ErrUnquotable is returned when a script argument cannot be written
	// safely in the target format.
	ErrUnquotable = errors.New("argument cannot be quoted")
)

type (
	// Format selects the installer script dialect.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}

	// QuoteError reports a script argument that the format cannot express.
	QuoteError struct {
		Format Format
		Value  string
		Reason string
		Err    error
	}
)

// DefaultFormat returns the script format native to the host OS.
func DefaultFormat() Format {
	if platform.IsWindows(runtime.GOOS) {
		return FormatBat
	}
	return FormatSh
}

// Formats returns every supported script format.
func Formats() []Format { return []Format{FormatSh, FormatBat} }

// Validate returns an error if the Format is not one of the defined values.
func (f Format) Validate() error {
	switch f {
	case FormatSh, FormatBat:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Ext returns the script file extension, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid script format %q (valid: sh, bat)", e.Value)
}

// Unwrap returns ErrInvalidFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Error implements the error interface.
func (e *QuoteError) Error() string {
	msg := fmt.Sprintf("cannot write %q in a %s script: %s", e.Value, e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *QuoteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnquotable.
func (e *QuoteError) Is(target error) bool { return target == ErrUnquotable }

// ScriptName returns the installer file name for root, install_<name>.<ext>.
func ScriptName(root *wheel.Package, format Format) string {
	return artifactName(root, format.Ext())
}

func artifactName(root *wheel.Package, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, root.Name)
	return scriptPrefix + name + ext
}
