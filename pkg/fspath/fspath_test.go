// SPDX-License-Identifier: MPL-2.0

package fspath_test

import (
	"path/filepath"
	"testing"

	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
)

func TestJoin(t *testing.T) {
	t.Parallel()

	got := fspath.Join(types.FilesystemPath("wheels"), types.FilesystemPath("vendor"))
	want := types.FilesystemPath(filepath.Join("wheels", "vendor"))
	if got != want {
		t.Errorf("Join() = %q, want %q", got, want)
	}
}

func TestJoinStr(t *testing.T) {
	t.Parallel()

	got := fspath.JoinStr(types.FilesystemPath("wheels"), "libx-2.0-py3-none-any.whl")
	want := types.FilesystemPath(filepath.Join("wheels", "libx-2.0-py3-none-any.whl"))
	if got != want {
		t.Errorf("JoinStr() = %q, want %q", got, want)
	}
}

func TestDir(t *testing.T) {
	t.Parallel()

	got := fspath.Dir(types.FilesystemPath(filepath.Join("a", "b", "c.whl")))
	want := types.FilesystemPath(filepath.Join("a", "b"))
	if got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	got := fspath.Clean(types.FilesystemPath(filepath.Join("a", "..", "b", ".", "c.whl")))
	want := types.FilesystemPath(filepath.Join("b", "c.whl"))
	if got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
}

func TestNormalize_IsAbsolute(t *testing.T) {
	t.Parallel()

	got := fspath.Normalize(types.FilesystemPath("app.whl"))
	if !filepath.IsAbs(string(got)) {
		t.Errorf("Normalize() = %q, want an absolute path", got)
	}
}

func TestSame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b types.FilesystemPath
		want bool
	}{
		{"identical", "app.whl", "app.whl", true},
		{"dot prefix", "app.whl", types.FilesystemPath("." + string(filepath.Separator) + "app.whl"), true},
		{"parent hop", types.FilesystemPath(filepath.Join("x", "..", "app.whl")), "app.whl", true},
		{"different file", "app.whl", "lib.whl", false},
		{"different dir", types.FilesystemPath(filepath.Join("x", "app.whl")), "app.whl", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fspath.Same(tt.a, tt.b); got != tt.want {
				t.Errorf("Same(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
