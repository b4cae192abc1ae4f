// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/wheelpack/wheelpack/pkg/wheel"
)

var (
	// ErrUnresolvableOrder is returned when no remaining package can be placed.
	ErrUnresolvableOrder = errors.New("no valid install order")

	// ErrUnresolved is returned by Build when the resolution left
	// dependencies unsatisfied.
	ErrUnresolved = errors.New("unresolved dependencies")
)

type (
	// UnresolvableOrderError describes a planner dead end.
	UnresolvableOrderError struct {
		// Placed is the partial order built before the planner got stuck.
		Placed []*wheel.Package
		// Remaining are the packages that could not be placed, in input order.
		Remaining []*wheel.Package
		// Cycle is a closed path of package keys among Remaining, if any.
		Cycle []string
		// Missing maps a prerequisite key that nothing provides to the keys
		// of the remaining packages that require it.
		Missing map[string][]string
	}

	// UnresolvedError reports that an incomplete resolution was given to Build.
	UnresolvedError struct {
		Unresolved []wheel.Dependency
	}
)

// Error implements the error interface.
func (e *UnresolvableOrderError) Error() string {
	remaining := make([]string, len(e.Remaining))
	for i, p := range e.Remaining {
		remaining[i] = p.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %d package(s) [%s]", ErrUnresolvableOrder, len(e.Remaining), strings.Join(remaining, ", "))
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, ": dependency cycle %s", strings.Join(e.Cycle, " -> "))
	}
	for _, name := range e.MissingNames() {
		fmt.Fprintf(&b, "; %s required by %s is not provided", name, strings.Join(e.Missing[name], ", "))
	}
	return b.String()
}

// Unwrap returns ErrUnresolvableOrder for use with errors.Is.
func (e *UnresolvableOrderError) Unwrap() error { return ErrUnresolvableOrder }

// MissingNames returns the keys of Missing in sorted order.
func (e *UnresolvableOrderError) MissingNames() []string {
	out := make([]string, 0, len(e.Missing))
	for name := range e.Missing {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Error implements the error interface.
func (e *UnresolvedError) Error() string {
	names := make([]string, len(e.Unresolved))
	for i, d := range e.Unresolved {
		names[i] = d.Name
	}
	return fmt.Sprintf("%s: %s", ErrUnresolved, strings.Join(names, ", "))
}

// Unwrap returns ErrUnresolved for use with errors.Is.
func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }
