// SPDX-License-Identifier: MPL-2.0

package resolve

import "github.com/wheelpack/wheelpack/pkg/wheel"

const (
	// StatusInstalled means an installed package has the dependency's name.
	StatusInstalled Status = iota + 1
	// StatusLocal means a local candidate wheel has the dependency's name.
	StatusLocal
	// StatusUnresolved means nothing provides the dependency.
	StatusUnresolved
)

type (
	// Status classifies a processed dependency.
	Status int

	// Event reports the classification of one dependency, in processing order.
	Event struct {
		Dependency wheel.Dependency
		Status     Status
		// Parent is the package that declared the dependency.
		Parent *wheel.Package
		// Package is the matching local candidate (StatusLocal only).
		Package *wheel.Package
		// InstalledVersion is set for StatusInstalled.
		InstalledVersion string
	}

	// Observer receives events as dependencies are classified.
	Observer interface {
		Observe(Event)
	}

	// ObserverFunc adapts a function to Observer.
	ObserverFunc func(Event)
)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// Satisfied reports whether the status counts as satisfied.
func (s Status) Satisfied() bool {
	return s == StatusInstalled || s == StatusLocal
}

// Symbol returns "+" for satisfied dependencies and "-" otherwise.
func (s Status) Symbol() string {
	if s.Satisfied() {
		return "+"
	}
	return "-"
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusLocal:
		return "local"
	case StatusUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}
