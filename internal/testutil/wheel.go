// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WheelSpec describes a synthetic wheel archive.
type WheelSpec struct {
	// Name and Version populate the Name/Version headers and the
	// default .dist-info directory name. Empty values omit the header.
	Name    string
	Version string
	// Requires become Requires-Dist headers, in order.
	Requires []string
	// Headers are extra "Key: Value" lines appended after Requires-Dist.
	Headers []string
	// Body is written after the blank line that ends the header block.
	Body string
	// Metadata, when non-nil, replaces the generated METADATA content.
	Metadata []byte
	// DistInfo overrides the .dist-info directory names that receive a
	// METADATA entry. An empty non-nil slice writes no METADATA at all.
	DistInfo []string
	// Files are extra archive entries (name -> content).
	Files map[string]string
}

// FileName returns the conventional wheel file name for s.
func (s WheelSpec) FileName() string {
	return s.Name + "-" + s.Version + "-py3-none-any.whl"
}

// MetadataBytes renders the METADATA record for s.
func (s WheelSpec) MetadataBytes() []byte {
	if s.Metadata != nil {
		return s.Metadata
	}
	var b strings.Builder
	b.WriteString("Metadata-Version: 2.1\n")
	if s.Name != "" {
		b.WriteString("Name: " + s.Name + "\n")
	}
	if s.Version != "" {
		b.WriteString("Version: " + s.Version + "\n")
	}
	for _, req := range s.Requires {
		b.WriteString("Requires-Dist: " + req + "\n")
	}
	for _, h := range s.Headers {
		b.WriteString(h + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Body)
	return []byte(b.String())
}

// BuildWheel renders spec as zip archive bytes.
func BuildWheel(t testing.TB, spec WheelSpec) []byte {
	t.Helper()

	distInfo := spec.DistInfo
	if distInfo == nil {
		distInfo = []string{spec.Name + "-" + spec.Version + ".dist-info"}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create archive entry %s: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("failed to write archive entry %s: %v", name, err)
		}
	}

	if spec.Name != "" {
		write(strings.ToLower(spec.Name)+"/__init__.py", nil)
	}
	for _, dir := range distInfo {
		write(dir+"/METADATA", spec.MetadataBytes())
		write(dir+"/WHEEL", []byte("Wheel-Version: 1.0\n"))
	}
	for name, content := range spec.Files {
		write(name, []byte(content))
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finish archive: %v", err)
	}
	return buf.Bytes()
}

// WriteWheel writes spec to dir under its conventional file name and
// returns the full path.
func WriteWheel(t testing.TB, dir string, spec WheelSpec) string {
	t.Helper()
	path := filepath.Join(dir, spec.FileName())
	WriteWheelFs(t, afero.NewOsFs(), path, spec)
	return path
}

// WriteWheelFs writes spec to path on fs.
func WriteWheelFs(t testing.TB, fs afero.Fs, path string, spec WheelSpec) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, BuildWheel(t, spec), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
