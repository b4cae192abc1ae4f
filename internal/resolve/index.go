// SPDX-License-Identifier: MPL-2.0

package resolve

import "github.com/wheelpack/wheelpack/pkg/wheel"

// Index maps package keys to local candidate wheels. When several
// candidates share a name, the first one given wins.
type Index struct {
	byKey    map[string]*wheel.Package
	shadowed []*wheel.Package
}

// NewIndex builds an Index from candidates in their scan order.
func NewIndex(candidates []*wheel.Package) *Index {
	idx := &Index{byKey: make(map[string]*wheel.Package, len(candidates))}
	for _, pkg := range candidates {
		if _, dup := idx.byKey[pkg.Key()]; dup {
			idx.shadowed = append(idx.shadowed, pkg)
			continue
		}
		idx.byKey[pkg.Key()] = pkg
	}
	return idx
}

// Lookup returns the candidate for name, compared case-insensitively.
func (i *Index) Lookup(name string) (*wheel.Package, bool) {
	pkg, ok := i.byKey[wheel.Key(name)]
	return pkg, ok
}

// Len returns the number of distinct candidate names.
func (i *Index) Len() int { return len(i.byKey) }

// Shadowed returns candidates that lost to an earlier wheel of the same name.
func (i *Index) Shadowed() []*wheel.Package {
	return append([]*wheel.Package(nil), i.shadowed...)
}
