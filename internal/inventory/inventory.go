// SPDX-License-Identifier: MPL-2.0

// Package inventory answers "which packages are already installed?".
//
// The resolver takes a Snapshot, not a live query, so a run sees one
// consistent view of the system. Implementations differ only in where the
// snapshot comes from: the pip of a given interpreter, a site-packages
// directory read directly, or a fixed set.
package inventory

import (
	"context"
	"maps"
	"regexp"
	"slices"

	"github.com/wheelpack/wheelpack/pkg/wheel"
)

// unsafeNameRun matches the runs InstalledKey collapses to a single '-'.
var unsafeNameRun = regexp.MustCompile(`[^A-Za-z0-9.]+`)

type (
	// Snapshot maps installed keys (see InstalledKey) to installed versions.
	// Lookups fold the queried name with wheel.Key only.
	// It is immutable by convention once returned from an Inventory.
	Snapshot map[string]string

	// Inventory produces the installed-package snapshot for one run.
	Inventory interface {
		Installed(ctx context.Context) (Snapshot, error)
	}

	// Static is an Inventory backed by a fixed name -> version map.
	Static struct {
		Packages map[string]string
	}
)

// InstalledKey is the key an installed distribution is recorded under: its
// project name with every run of characters other than letters, digits and
// '.' replaced by '-', then case-folded. An installed "typing_extensions"
// therefore satisfies a requirement on "typing-extensions".
func InstalledKey(name string) string {
	return wheel.Key(unsafeNameRun.ReplaceAllString(name, "-"))
}

// NewSnapshot builds a Snapshot from a name -> version map, folding names
// with InstalledKey.
func NewSnapshot(packages map[string]string) Snapshot {
	snap := make(Snapshot, len(packages))
	for name, version := range packages {
		snap.add(name, version)
	}
	return snap
}

func (s Snapshot) add(name, version string) {
	s[InstalledKey(name)] = version
}

// Has reports whether a package of that name is installed.
func (s Snapshot) Has(name string) bool {
	_, ok := s[wheel.Key(name)]
	return ok
}

// Version returns the installed version of name.
func (s Snapshot) Version(name string) (string, bool) {
	v, ok := s[wheel.Key(name)]
	return v, ok
}

// Names returns the installed package keys in sorted order.
func (s Snapshot) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Installed returns the fixed snapshot.
func (s Static) Installed(context.Context) (Snapshot, error) {
	return NewSnapshot(s.Packages), nil
}

// None returns an Inventory that reports nothing installed. It backs the
// "ignore installed packages" mode.
func None() Inventory {
	return Static{}
}
