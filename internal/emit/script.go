// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"

	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const (
	flagDisableVersionCheck = "--disable-pip-version-check"
	flagRequireVirtualenv   = "--require-virtualenv"

	// batSpecial are characters cmd.exe interprets outside double quotes.
	batSpecial = " &|<>^(),;="
)

// Options controls the installer command line.
type Options struct {
	// RequireVirtualenv adds --require-virtualenv so pip refuses to install
	// outside an active virtual environment.
	RequireVirtualenv bool
	// DisableVersionCheck adds --disable-pip-version-check.
	DisableVersionCheck bool
	// Installer is the command prefix, split on whitespace. Empty means
	// DefaultInstaller.
	Installer string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RequireVirtualenv:   true,
		DisableVersionCheck: true,
		Installer:           DefaultInstaller,
	}
}

// Args returns the installer command and flags that precede each path.
func (o Options) Args() []string {
	args := strings.Fields(o.Installer)
	if len(args) == 0 {
		args = strings.Fields(DefaultInstaller)
	}
	if o.DisableVersionCheck {
		args = append(args, flagDisableVersionCheck)
	}
	if o.RequireVirtualenv {
		args = append(args, flagRequireVirtualenv)
	}
	return args
}

// Script renders the installer script for order.
func Script(root *wheel.Package, order []*wheel.Package, format Format, opts Options) ([]byte, error) {
	switch format {
	case FormatSh:
		return shScript(root, order, opts)
	case FormatBat:
		return batScript(order, opts)
	default:
		return nil, &InvalidFormatError{Value: format}
	}
}

// WriteScript renders the script and writes it to dir under ScriptName.
// Shell scripts are made executable. The written path is returned.
func WriteScript(fs afero.Fs, dir types.FilesystemPath, root *wheel.Package, order []*wheel.Package, format Format, opts Options) (types.FilesystemPath, error) {
	data, err := Script(root, order, format, opts)
	if err != nil {
		return "", err
	}

	var perm os.FileMode = 0o644
	if format == FormatSh {
		perm = 0o755
	}
	path := fspath.JoinStr(dir, ScriptName(root, format))
	if err := afero.WriteFile(fs, path.String(), data, perm); err != nil {
		return "", fmt.Errorf("write installer script %s: %w", path, err)
	}
	return path, nil
}

// shScript builds the POSIX script and round-trips it through the shell
// parser, which both rejects malformed output and prints it canonically.
func shScript(root *wheel.Package, order []*wheel.Package, opts Options) ([]byte, error) {
	prefix, err := quoteAll(opts.Args(), FormatSh)
	if err != nil {
		return nil, err
	}

	var src strings.Builder
	src.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&src, "# Installs %s and its bundled dependencies.\n", commentSafe(root.String()))
	src.WriteString("set -e\n\n")
	for _, pkg := range order {
		path, err := quoteSh(pkg.Path.String())
		if err != nil {
			return nil, err
		}
		src.WriteString(strings.Join(prefix, " ") + " " + path + "\n")
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX), syntax.KeepComments(true))
	file, err := parser.Parse(strings.NewReader(src.String()), "install.sh")
	if err != nil {
		return nil, fmt.Errorf("generated script does not parse: %w", err)
	}

	var out bytes.Buffer
	if err := syntax.NewPrinter().Print(&out, file); err != nil {
		return nil, fmt.Errorf("print installer script: %w", err)
	}
	return out.Bytes(), nil
}

func batScript(order []*wheel.Package, opts Options) ([]byte, error) {
	prefix, err := quoteAll(opts.Args(), FormatBat)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("@echo on\r\n")
	b.WriteString("\r\n")
	for _, pkg := range order {
		path, err := quoteBat(pkg.Path.String())
		if err != nil {
			return nil, err
		}
		b.WriteString(strings.Join(prefix, " ") + " " + path + "\r\n")
	}
	return b.Bytes(), nil
}

func quoteAll(args []string, format Format) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		var err error
		if format == FormatBat {
			out[i], err = quoteBat(arg)
		} else {
			out[i], err = quoteSh(arg)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func quoteSh(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", &QuoteError{Format: FormatSh, Value: s, Reason: "not representable in POSIX shell", Err: err}
	}
	return q, nil
}

// quoteBat wraps s in double quotes when cmd.exe would otherwise split or
// interpret it. Batch files have no escape for a literal double quote inside
// a quoted argument, and the file is written as ASCII.
func quoteBat(s string) (string, error) {
	for _, r := range s {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			return "", &QuoteError{Format: FormatBat, Value: s, Reason: "only printable ASCII is supported"}
		}
	}
	if strings.Contains(s, `"`) {
		return "", &QuoteError{Format: FormatBat, Value: s, Reason: "contains a double quote"}
	}
	s = strings.ReplaceAll(s, "%", "%%")
	if s == "" || strings.ContainsAny(s, batSpecial) {
		return `"` + s + `"`, nil
	}
	return s, nil
}

func commentSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}
