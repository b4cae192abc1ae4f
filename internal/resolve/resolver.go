// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

type (
	// Resolver computes the install set for a root package.
	Resolver struct {
		installed inventory.Snapshot
		index     *Index
		observer  Observer
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Result is the outcome of one resolution.
	Result struct {
		Root *wheel.Package
		// NeedInstall is the root followed by every matched local candidate,
		// in first-matched order. Each package appears once.
		NeedInstall []*wheel.Package
		// Unresolved lists dependencies nothing provides, in processing order.
		Unresolved []wheel.Dependency
		// Known is every dependency that entered the work queue, in order.
		Known []wheel.Dependency
		// Events records each classification in processing order.
		Events []Event
	}

	// queueItem is a dependency waiting to be classified.
	queueItem struct {
		dep    wheel.Dependency
		parent *wheel.Package
	}
)

// WithObserver registers an observer notified of every classification.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// New creates a Resolver over an installed snapshot and local candidates.
// Candidates must be in scan order; the first wheel of a given name wins.
func New(installed inventory.Snapshot, candidates []*wheel.Package, opts ...Option) *Resolver {
	if installed == nil {
		installed = inventory.Snapshot{}
	}
	r := &Resolver{
		installed: installed,
		index:     NewIndex(candidates),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index returns the candidate index the resolver matches against.
func (r *Resolver) Index() *Index { return r.index }

// Resolve runs the closure loop for root.
func (r *Resolver) Resolve(root *wheel.Package) Result {
	res := Result{
		Root:        root,
		NeedInstall: []*wheel.Package{root},
	}

	// seen guards the queue: a dependency name is queued at most once,
	// except for repeats among the root's own declarations.
	seen := make(map[string]bool, len(root.Requires))
	queue := make([]queueItem, 0, len(root.Requires))
	for _, dep := range root.Requires {
		seen[dep.Key()] = true
		queue = append(queue, queueItem{dep: dep, parent: root})
		res.Known = append(res.Known, dep)
	}

	scheduled := map[types.FilesystemPath]bool{root.Path: true}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		ev := Event{Dependency: item.dep, Parent: item.parent}
		if version, ok := r.installed.Version(item.dep.Name); ok {
			ev.Status = StatusInstalled
			ev.InstalledVersion = version
		} else if pkg, ok := r.index.Lookup(item.dep.Name); ok {
			ev.Status = StatusLocal
			ev.Package = pkg
			if !scheduled[pkg.Path] {
				scheduled[pkg.Path] = true
				res.NeedInstall = append(res.NeedInstall, pkg)
			}
			for _, sub := range pkg.Requires {
				if seen[sub.Key()] {
					continue
				}
				seen[sub.Key()] = true
				queue = append(queue, queueItem{dep: sub, parent: pkg})
				res.Known = append(res.Known, sub)
			}
		} else {
			ev.Status = StatusUnresolved
			res.Unresolved = append(res.Unresolved, item.dep)
		}

		res.Events = append(res.Events, ev)
		if r.observer != nil {
			r.observer.Observe(ev)
		}
	}

	return res
}

// Complete reports whether every dependency was satisfied.
func (r Result) Complete() bool { return len(r.Unresolved) == 0 }

// Satisfied returns the keys of every satisfied dependency, in
// processing order without repeats.
func (r Result) Satisfied() []string {
	var names []string
	seen := make(map[string]bool)
	for _, ev := range r.Events {
		if !ev.Status.Satisfied() || seen[ev.Dependency.Key()] {
			continue
		}
		seen[ev.Dependency.Key()] = true
		names = append(names, ev.Dependency.Key())
	}
	return names
}

// Local returns the matched local candidates, i.e. NeedInstall without the root.
func (r Result) Local() []*wheel.Package {
	if len(r.NeedInstall) <= 1 {
		return nil
	}
	return append([]*wheel.Package(nil), r.NeedInstall[1:]...)
}
