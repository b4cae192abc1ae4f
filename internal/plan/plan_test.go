// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"errors"
	"slices"
	"testing"

	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/internal/resolve"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

func testPackage(t *testing.T, name string, requires ...string) *wheel.Package {
	t.Helper()
	deps := make([]wheel.Dependency, 0, len(requires))
	for _, line := range requires {
		dep, err := wheel.ParseRequirement(line)
		if err != nil {
			t.Fatalf("ParseRequirement(%q): %v", line, err)
		}
		deps = append(deps, dep)
	}
	return &wheel.Package{
		Name:     name,
		Version:  "1.0",
		Requires: deps,
		Path:     types.FilesystemPath("/wheels/" + name + "-1.0-py3-none-any.whl"),
	}
}

func names(pkgs []*wheel.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

// assertValidOrder checks that every package's requirements are installed
// or placed earlier.
func assertValidOrder(t *testing.T, order []*wheel.Package, installed inventory.Snapshot) {
	t.Helper()
	have := make(map[string]bool)
	for _, name := range installed.Names() {
		have[name] = true
	}
	for _, pkg := range order {
		for _, dep := range pkg.Requires {
			if !have[dep.Key()] {
				t.Errorf("%s placed before its requirement %s", pkg.Name, dep.Name)
			}
		}
		have[pkg.Key()] = true
	}
}

func TestOrder_LocalDependencyFirst(t *testing.T) {
	t.Parallel()
	app := testPackage(t, "app", "libx")
	libx := testPackage(t, "libx")

	order, err := Order([]*wheel.Package{app, libx}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(order); !slices.Equal(got, []string{"libx", "app"}) {
		t.Errorf("order = %v, want [libx app]", got)
	}
}

func TestOrder_RootOnly(t *testing.T) {
	t.Parallel()
	app := testPackage(t, "app", "libx")
	installed := inventory.NewSnapshot(map[string]string{"libx": "2.0"})

	order, err := Order([]*wheel.Package{app}, installed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(order); !slices.Equal(got, []string{"app"}) {
		t.Errorf("order = %v, want [app]", got)
	}
}

func TestOrder_Empty(t *testing.T) {
	t.Parallel()
	order, err := Order(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected empty order, got %v", names(order))
	}
}

func TestOrder_Valid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		need      []*wheel.Package
		installed inventory.Snapshot
	}{
		{
			name: "chain",
			need: []*wheel.Package{
				testPackage(t, "app", "liba"),
				testPackage(t, "liba", "libb"),
				testPackage(t, "libb", "libc"),
				testPackage(t, "libc"),
			},
		},
		{
			name: "diamond with installed base",
			need: []*wheel.Package{
				testPackage(t, "app", "left", "right"),
				testPackage(t, "left", "base", "six"),
				testPackage(t, "right", "base"),
				testPackage(t, "base", "six"),
			},
			installed: inventory.NewSnapshot(map[string]string{"Six": "1.16"}),
		},
		{
			name: "mixed case names",
			need: []*wheel.Package{
				testPackage(t, "App", "PyYAML"),
				testPackage(t, "pyyaml"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			order, err := Order(tt.need, tt.installed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(order) != len(tt.need) {
				t.Fatalf("order has %d packages, want %d", len(order), len(tt.need))
			}
			assertValidOrder(t, order, tt.installed)
		})
	}
}

func TestOrder_PicksFirstEligible(t *testing.T) {
	t.Parallel()
	app := testPackage(t, "app", "liba", "libb")
	liba := testPackage(t, "liba")
	libb := testPackage(t, "libb")

	order, err := Order([]*wheel.Package{app, libb, liba}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(order); !slices.Equal(got, []string{"libb", "liba", "app"}) {
		t.Errorf("order = %v, want [libb liba app]", got)
	}
}

func TestOrder_Cycle(t *testing.T) {
	t.Parallel()
	root := testPackage(t, "app", "liba")
	liba := testPackage(t, "liba", "libb")
	libb := testPackage(t, "libb", "liba")

	_, err := Order([]*wheel.Package{root, liba, libb}, nil)
	if !errors.Is(err, ErrUnresolvableOrder) {
		t.Fatalf("expected ErrUnresolvableOrder, got %v", err)
	}

	var orderErr *UnresolvableOrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("expected *UnresolvableOrderError, got %T", err)
	}
	if got := names(orderErr.Remaining); !slices.Equal(got, []string{"app", "liba", "libb"}) {
		t.Errorf("Remaining = %v", got)
	}
	if len(orderErr.Placed) != 0 {
		t.Errorf("Placed = %v, want none", names(orderErr.Placed))
	}
	if got := orderErr.Cycle; !slices.Equal(got, []string{"liba", "libb", "liba"}) {
		t.Errorf("Cycle = %v, want [liba libb liba]", got)
	}
	if len(orderErr.Missing) != 0 {
		t.Errorf("Missing = %v, want none", orderErr.Missing)
	}
}

func TestOrder_MissingPrerequisite(t *testing.T) {
	t.Parallel()
	libc := testPackage(t, "libc")
	app := testPackage(t, "app", "ghost", "libc")

	_, err := Order([]*wheel.Package{app, libc}, nil)

	var orderErr *UnresolvableOrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("expected *UnresolvableOrderError, got %v", err)
	}
	if got := names(orderErr.Placed); !slices.Equal(got, []string{"libc"}) {
		t.Errorf("Placed = %v, want [libc]", got)
	}
	if got := orderErr.Missing["ghost"]; !slices.Equal(got, []string{"app"}) {
		t.Errorf("Missing[ghost] = %v, want [app]", got)
	}
	if orderErr.Cycle != nil {
		t.Errorf("Cycle = %v, want none", orderErr.Cycle)
	}
	want := "no valid install order for 1 package(s) [app]; ghost required by app is not provided"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	app := testPackage(t, "app", "libx")
	libx := testPackage(t, "libx")

	res := resolve.New(nil, []*wheel.Package{libx}).Resolve(app)
	order, err := Build(res, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(order); !slices.Equal(got, []string{"libx", "app"}) {
		t.Errorf("order = %v, want [libx app]", got)
	}
}

func TestBuild_Unresolved(t *testing.T) {
	t.Parallel()
	app := testPackage(t, "app", "missing_pkg")

	res := resolve.New(nil, nil).Resolve(app)
	_, err := Build(res, nil)
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if errors.Is(err, ErrUnresolvableOrder) {
		t.Error("unresolved result must not report an order failure")
	}
}
