// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"github.com/wheelpack/wheelpack/pkg/types"
)

// Package is the identity and dependency list of one wheel archive.
type Package struct {
	Name    string
	Version string
	// Requires lists the declared dependencies in METADATA order.
	Requires []Dependency
	// Path is where the package was read from. It is what the installer
	// script installs.
	Path types.FilesystemPath

	Summary        string
	RequiresPython string
}

// Parse builds a Package from raw METADATA bytes. path is recorded on the
// result and on any returned error.
func Parse(data []byte, path types.FilesystemPath) (*Package, error) {
	md, err := ParseMetadata(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	pkg, err := FromMetadata(md, path)
	if err != nil {
		return nil, withPath(err, path)
	}
	return pkg, nil
}

// FromMetadata builds a Package from already-parsed metadata.
func FromMetadata(md Metadata, path types.FilesystemPath) (*Package, error) {
	name, err := md.required(HeaderName)
	if err != nil {
		return nil, err
	}
	version, err := md.required(HeaderVersion)
	if err != nil {
		return nil, err
	}

	lines := md.RequiresDist()
	requires := make([]Dependency, 0, len(lines))
	for _, line := range lines {
		dep, err := ParseRequirement(line)
		if err != nil {
			return nil, err
		}
		requires = append(requires, dep)
	}

	summary, _ := md.Value(HeaderSummary)
	requiresPython, _ := md.Value(HeaderRequiresPython)

	return &Package{
		Name:           name,
		Version:        version,
		Requires:       requires,
		Path:           path,
		Summary:        summary,
		RequiresPython: requiresPython,
	}, nil
}

// Key returns the package's comparison key.
func (p *Package) Key() string { return Key(p.Name) }

// String returns "name version".
func (p *Package) String() string { return p.Name + " " + p.Version }

// RequirementKeys returns the keys of every declared dependency, in order.
func (p *Package) RequirementKeys() []string {
	keys := make([]string, len(p.Requires))
	for i, dep := range p.Requires {
		keys[i] = dep.Key()
	}
	return keys
}
