// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"errors"
	"testing"
)

func TestParseRequirement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want Dependency
	}{
		{"bare name", "requests", Dependency{Name: "requests"}},
		{"spaced constraint", "requests >=2.0", Dependency{Name: "requests", Constraint: ">=2.0"}},
		{"parenthesized constraint", "requests (>=2.0)", Dependency{Name: "requests", Constraint: "(>=2.0)"}},
		{"attached constraint", "requests>=2.0,<3", Dependency{Name: "requests", Constraint: ">=2.0,<3"}},
		{"not-equal constraint", "idna!=3.0", Dependency{Name: "idna", Constraint: "!=3.0"}},
		{
			"marker only",
			`pywin32 ; sys_platform == "win32"`,
			Dependency{Name: "pywin32", Marker: `sys_platform == "win32"`},
		},
		{
			"constraint and marker",
			`typing-extensions >=4.0; python_version < "3.11"`,
			Dependency{Name: "typing-extensions", Constraint: ">=4.0", Marker: `python_version < "3.11"`},
		},
		{
			"marker attached to name",
			"pytest;extra == 'test'",
			Dependency{Name: "pytest", Marker: "extra == 'test'"},
		},
		{"surrounding whitespace", "  six  ", Dependency{Name: "six"}},
		{"extras stay in the name", "uvicorn[standard] >=0.20", Dependency{Name: "uvicorn[standard]", Constraint: ">=0.20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRequirement(tt.line)
			if err != nil {
				t.Fatalf("ParseRequirement(%q) unexpected error: %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("ParseRequirement(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseRequirement_Malformed(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"", "   ", ">=1.0", "==2", "; extra == 'x'"} {
		t.Run(line, func(t *testing.T) {
			t.Parallel()
			_, err := ParseRequirement(line)
			if err == nil {
				t.Fatalf("ParseRequirement(%q) expected error, got nil", line)
			}
			if !errors.Is(err, ErrInvalidArchive) {
				t.Errorf("error should match ErrInvalidArchive, got: %v", err)
			}
			var ie *InvalidArchiveError
			if !errors.As(err, &ie) || ie.Reason != ReasonBadRequirement {
				t.Errorf("expected ReasonBadRequirement, got: %v", err)
			}
		})
	}
}

func TestDependency_KeyIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	d := Dependency{Name: "PyYAML"}
	if d.Key() != "pyyaml" {
		t.Errorf("Key() = %q, want %q", d.Key(), "pyyaml")
	}
	if !d.Matches("pyyaml") || !d.Matches("PYYAML") {
		t.Error("Matches should ignore case")
	}
	if d.Matches("yaml") {
		t.Error("Matches(yaml) = true, want false")
	}
}

func TestDependency_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dep  Dependency
		want string
	}{
		{Dependency{Name: "libx"}, "libx"},
		{Dependency{Name: "libx", Constraint: ">=2.0"}, "libx >=2.0"},
		{Dependency{Name: "libx", Marker: `os_name == "nt"`}, `libx os_name == "nt"`},
		{Dependency{Name: "libx", Constraint: "<3", Marker: "extra == 'a'"}, "libx <3 extra == 'a'"},
	}
	for _, tt := range tests {
		if got := tt.dep.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDependency_LookupURL(t *testing.T) {
	t.Parallel()

	d := Dependency{Name: "missing_pkg"}
	if got, want := d.LookupURL(""), "https://pypi.org/project/missing_pkg/#history"; got != want {
		t.Errorf("LookupURL(\"\") = %q, want %q", got, want)
	}
	if got, want := d.LookupURL("https://mirror.example/simple/%s/"), "https://mirror.example/simple/missing_pkg/"; got != want {
		t.Errorf("LookupURL(format) = %q, want %q", got, want)
	}
	if got, want := d.LookupURL("https://mirror.example/simple/"), "https://mirror.example/simple/missing_pkg"; got != want {
		t.Errorf("LookupURL(base) = %q, want %q", got, want)
	}
}
