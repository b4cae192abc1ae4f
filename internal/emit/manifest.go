// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const (
	// ManifestNone disables the manifest.
	ManifestNone ManifestFormat = ""
	// ManifestTOML writes install_<root>.toml.
	ManifestTOML ManifestFormat = "toml"
	// ManifestYAML writes install_<root>.yaml.
	ManifestYAML ManifestFormat = "yaml"

	// ManifestVersion is the schema version written into every manifest.
	ManifestVersion = 1
)

// ErrInvalidManifestFormat is the sentinel error wrapped by InvalidManifestFormatError.
var ErrInvalidManifestFormat = errors.New("invalid manifest format")

type (
	// ManifestFormat selects the manifest encoding.
	ManifestFormat string

	// InvalidManifestFormatError is returned when a ManifestFormat value is not recognized.
	InvalidManifestFormatError struct {
		Value ManifestFormat
	}

	// Manifest records a planned bundle: which root it installs, how the
	// script invokes the installer, and the packages in install order.
	Manifest struct {
		Version  int               `toml:"version" yaml:"version"`
		Root     string            `toml:"root" yaml:"root"`
		Script   string            `toml:"script" yaml:"script"`
		Options  ManifestOptions   `toml:"options" yaml:"options"`
		Packages []ManifestPackage `toml:"packages" yaml:"packages"`
	}

	// ManifestOptions mirrors the script Options.
	ManifestOptions struct {
		Installer           string `toml:"installer" yaml:"installer"`
		RequireVirtualenv   bool   `toml:"require_virtualenv" yaml:"require_virtualenv"`
		DisableVersionCheck bool   `toml:"disable_version_check" yaml:"disable_version_check"`
	}

	// ManifestPackage is one install step.
	ManifestPackage struct {
		Name     string             `toml:"name" yaml:"name"`
		Version  string             `toml:"version" yaml:"version"`
		Path     string             `toml:"path" yaml:"path"`
		Requires []wheel.Dependency `toml:"requires,omitempty" yaml:"requires,omitempty"`
	}
)

// Validate returns an error if the ManifestFormat is not one of the defined values.
func (f ManifestFormat) Validate() error {
	switch f {
	case ManifestNone, ManifestTOML, ManifestYAML:
		return nil
	default:
		return &InvalidManifestFormatError{Value: f}
	}
}

// Enabled reports whether a manifest should be written.
func (f ManifestFormat) Enabled() bool { return f != ManifestNone }

// String returns the string representation of the ManifestFormat.
func (f ManifestFormat) String() string { return string(f) }

// Error implements the error interface.
func (e *InvalidManifestFormatError) Error() string {
	return fmt.Sprintf("invalid manifest format %q (valid: toml, yaml, or empty)", e.Value)
}

// Unwrap returns ErrInvalidManifestFormat so callers can use errors.Is for programmatic detection.
func (e *InvalidManifestFormatError) Unwrap() error { return ErrInvalidManifestFormat }

// ManifestName returns install_<root>.<toml|yaml>.
func ManifestName(root *wheel.Package, format ManifestFormat) string {
	return artifactName(root, "."+string(format))
}

// NewManifest describes order as installed by the script named script.
func NewManifest(root *wheel.Package, order []*wheel.Package, script string, opts Options) Manifest {
	installer := opts.Installer
	if installer == "" {
		installer = DefaultInstaller
	}
	m := Manifest{
		Version: ManifestVersion,
		Root:    root.Name,
		Script:  script,
		Options: ManifestOptions{
			Installer:           installer,
			RequireVirtualenv:   opts.RequireVirtualenv,
			DisableVersionCheck: opts.DisableVersionCheck,
		},
		Packages: make([]ManifestPackage, len(order)),
	}
	for i, pkg := range order {
		m.Packages[i] = ManifestPackage{
			Name:     pkg.Name,
			Version:  pkg.Version,
			Path:     pkg.Path.String(),
			Requires: pkg.Requires,
		}
	}
	return m
}

// Encode serializes the manifest.
func (m Manifest) Encode(format ManifestFormat) ([]byte, error) {
	switch format {
	case ManifestTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode toml manifest: %w", err)
		}
		return buf.Bytes(), nil
	case ManifestYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode yaml manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml manifest: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, &InvalidManifestFormatError{Value: format}
	}
}

// DecodeManifest parses a manifest previously produced by Encode.
func DecodeManifest(data []byte, format ManifestFormat) (Manifest, error) {
	var m Manifest
	switch format {
	case ManifestTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("decode toml manifest: %w", err)
		}
	case ManifestYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("decode yaml manifest: %w", err)
		}
	default:
		return Manifest{}, &InvalidManifestFormatError{Value: format}
	}
	return m, nil
}

// WriteManifest encodes m and writes it to dir under ManifestName.
func WriteManifest(fs afero.Fs, dir types.FilesystemPath, root *wheel.Package, m Manifest, format ManifestFormat) (types.FilesystemPath, error) {
	data, err := m.Encode(format)
	if err != nil {
		return "", err
	}
	path := fspath.JoinStr(dir, ManifestName(root, format))
	if err := afero.WriteFile(fs, path.String(), data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest %s: %w", path, err)
	}
	return path, nil
}
