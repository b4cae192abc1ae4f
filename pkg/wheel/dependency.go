// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultLookupURL is where a human can find downloads for a missing package.
// The single %s receives the package name.
const DefaultLookupURL = "https://pypi.org/project/%s/#history"

// requirementPattern splits a Requires-Dist value into name, constraint and
// marker. The name stops at a space, a comparison operator, or the ';' that
// introduces a marker; the constraint runs up to the ';'.
var requirementPattern = regexp.MustCompile(`^([^ !<>=;]+)(?: *([^;]+))?(?: *; *(.+))?`)

// Dependency is one declared requirement of a package.
type Dependency struct {
	Name string `json:"name" toml:"name" yaml:"name"`
	// Constraint is the version constraint text, never evaluated.
	Constraint string `json:"constraint,omitempty" toml:"constraint,omitempty" yaml:"constraint,omitempty"`
	// Marker is the environment marker text, never evaluated.
	Marker string `json:"marker,omitempty" toml:"marker,omitempty" yaml:"marker,omitempty"`
}

// Key returns the case-folded form of a package name. All name comparisons
// go through Key.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseRequirement parses a single Requires-Dist value such as
// `requests (>=2.0) ; python_version >= "3.8"`.
func ParseRequirement(line string) (Dependency, error) {
	line = strings.TrimSpace(line)
	m := requirementPattern.FindStringSubmatch(line)
	if m == nil {
		return Dependency{}, &InvalidArchiveError{Reason: ReasonBadRequirement, Detail: fmt.Sprintf("%q", line)}
	}
	return Dependency{
		Name:       m[1],
		Constraint: strings.TrimSpace(m[2]),
		Marker:     strings.TrimSpace(m[3]),
	}, nil
}

// Key returns the dependency's comparison key.
func (d Dependency) Key() string { return Key(d.Name) }

// Matches reports whether the dependency names the given package name.
func (d Dependency) Matches(name string) bool { return d.Key() == Key(name) }

// String renders the dependency the way it is shown to users:
// name, then constraint and marker when present.
func (d Dependency) String() string {
	parts := []string{d.Name}
	if d.Constraint != "" {
		parts = append(parts, d.Constraint)
	}
	if d.Marker != "" {
		parts = append(parts, d.Marker)
	}
	return strings.Join(parts, " ")
}

// LookupURL returns the download reference for the dependency. format must
// contain one %s; an empty format uses DefaultLookupURL.
func (d Dependency) LookupURL(format string) string {
	if format == "" {
		format = DefaultLookupURL
	}
	if !strings.Contains(format, "%s") {
		return strings.TrimRight(format, "/") + "/" + d.Name
	}
	return fmt.Sprintf(format, d.Name)
}
