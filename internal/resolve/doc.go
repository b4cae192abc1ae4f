// SPDX-License-Identifier: MPL-2.0

// Package resolve computes the transitive dependency closure of a root wheel
// against an installed-package snapshot and a set of local candidate wheels.
//
// Resolution is a single forward pass over a FIFO work queue seeded with the
// root's dependencies. A dependency is satisfied when its name matches an
// installed package or a local candidate; a matched candidate is scheduled
// for install and its own dependencies join the queue unless a dependency of
// the same name was already seen. The first-seen constraint text wins and
// later duplicates are dropped. The loop ends when the queue is empty.
//
// Version constraints and environment markers are never evaluated: matching
// is by name only. wheelpack is an offline bundling aid, not a solver.
package resolve
