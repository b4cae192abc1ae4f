// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"

	"github.com/wheelpack/wheelpack/internal/dag"
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/internal/resolve"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

// Order returns need arranged so that each package's requirements are
// satisfied by installed names plus the names placed before it.
//
// Each round places the first remaining package, in input order, whose
// requirements are all satisfied. Packages in need do not count as satisfied
// until they are placed. When a round places nothing, Order returns an
// *UnresolvableOrderError.
func Order(need []*wheel.Package, installed inventory.Snapshot) ([]*wheel.Package, error) {
	have := make(map[string]bool, len(installed)+len(need))
	for name := range installed {
		have[wheel.Key(name)] = true
	}

	remaining := append([]*wheel.Package(nil), need...)
	order := make([]*wheel.Package, 0, len(need))

	for len(remaining) > 0 {
		idx := -1
		for i, pkg := range remaining {
			if satisfied(pkg, have) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, diagnose(order, remaining, have)
		}

		pkg := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		order = append(order, pkg)
		have[pkg.Key()] = true
	}

	return order, nil
}

// Build orders a resolution result. It refuses incomplete results with an
// *UnresolvedError wrapping ErrUnresolved.
func Build(res resolve.Result, installed inventory.Snapshot) ([]*wheel.Package, error) {
	if !res.Complete() {
		return nil, &UnresolvedError{Unresolved: res.Unresolved}
	}
	return Order(res.NeedInstall, installed)
}

func satisfied(pkg *wheel.Package, have map[string]bool) bool {
	for _, dep := range pkg.Requires {
		if !have[dep.Key()] {
			return false
		}
	}
	return true
}

// diagnose explains a dead end. The remaining packages form a prerequisite
// graph: an edge runs from a requirement to the package needing it. Any
// requirement that is neither satisfied nor among the remaining packages is
// reported as missing.
func diagnose(placed, remaining []*wheel.Package, have map[string]bool) *UnresolvableOrderError {
	pending := make(map[string]bool, len(remaining))
	for _, pkg := range remaining {
		pending[pkg.Key()] = true
	}

	g := dag.New()
	missing := make(map[string][]string)
	for _, pkg := range remaining {
		g.AddNode(pkg.Key())
		for _, dep := range pkg.Requires {
			key := dep.Key()
			switch {
			case have[key]:
			case pending[key]:
				g.AddEdge(key, pkg.Key())
			default:
				missing[key] = append(missing[key], pkg.Key())
			}
		}
	}

	err := &UnresolvableOrderError{
		Placed:    placed,
		Remaining: remaining,
		Missing:   missing,
	}
	if _, sortErr := g.TopologicalSort(); sortErr != nil {
		var cycleErr *dag.CycleError
		if errors.As(sortErr, &cycleErr) {
			err.Cycle = cycleErr.Cycle
		}
	}
	return err
}
