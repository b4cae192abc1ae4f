// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/internal/testutil"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

func packageNames(pkgs []*wheel.Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}

func diagnosticCodes(diags []Diagnostic) []Code {
	codes := make([]Code, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return codes
}

func TestScan_TopLevelWheelsOnly(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteWheelFs(t, fs, "/wheels/libz-1.0-py3-none-any.whl", testutil.WheelSpec{Name: "libz", Version: "1.0"})
	testutil.WriteWheelFs(t, fs, "/wheels/liba-3.1-py3-none-any.whl", testutil.WheelSpec{Name: "liba", Version: "3.1"})
	testutil.WriteWheelFs(t, fs, "/wheels/nested/deep-1.0-py3-none-any.whl", testutil.WheelSpec{Name: "deep", Version: "1.0"})
	if err := afero.WriteFile(fs, "/wheels/README.txt", []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Scan(fs, "/wheels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := packageNames(res.Packages); !slices.Equal(got, []string{"liba", "libz"}) {
		t.Errorf("packages = %v, want [liba libz] in file-name order", got)
	}
	if got := diagnosticCodes(res.Diagnostics); !slices.Equal(got, []Code{CodeSubdirectory, CodeNotWheel}) {
		t.Errorf("diagnostics = %v", got)
	}
}

func TestScan_ExcludeComparesNormalizedPaths(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteWheelFs(t, fs, "/wheels/app-1.0-py3-none-any.whl", testutil.WheelSpec{Name: "app", Version: "1.0"})
	testutil.WriteWheelFs(t, fs, "/wheels/libx-2.0-py3-none-any.whl", testutil.WheelSpec{Name: "libx", Version: "2.0"})

	exclude := types.FilesystemPath("/wheels/nested/../app-1.0-py3-none-any.whl")
	res, err := Scan(fs, "/wheels", exclude)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := packageNames(res.Packages); !slices.Equal(got, []string{"libx"}) {
		t.Errorf("packages = %v, want [libx]", got)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != CodeExcluded {
		t.Errorf("diagnostics = %+v, want one %q", res.Diagnostics, CodeExcluded)
	}
}

// Not parallel: changes the working directory.
func TestScan_ExcludeRelativeToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteWheel(t, dir, testutil.WheelSpec{Name: "app", Version: "1.0"})
	testutil.WriteWheel(t, dir, testutil.WheelSpec{Name: "libx", Version: "2.0"})

	t.Chdir(dir)

	res, err := Scan(nil, ".", "./app-1.0-py3-none-any.whl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := packageNames(res.Packages); !slices.Equal(got, []string{"libx"}) {
		t.Errorf("packages = %v, want [libx]", got)
	}
	if want := types.FilesystemPath("libx-2.0-py3-none-any.whl"); res.Packages[0].Path != want {
		t.Errorf("Path = %q, want %q", res.Packages[0].Path, want)
	}
}

func TestScan_BrokenCandidateAbortsScan(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteWheelFs(t, fs, "/wheels/good-1.0-py3-none-any.whl", testutil.WheelSpec{Name: "good", Version: "1.0"})
	testutil.WriteWheelFs(t, fs, "/wheels/bad-1.0-py3-none-any.whl", testutil.WheelSpec{Name: "bad", Version: "1.0", DistInfo: []string{}})

	res, err := Scan(fs, "/wheels")
	if !errors.Is(err, wheel.ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got: %v", err)
	}
	var ie *wheel.InvalidArchiveError
	if !errors.As(err, &ie) || ie.Path != types.FilesystemPath(filepath.Join("/wheels", "bad-1.0-py3-none-any.whl")) {
		t.Errorf("error should name the broken archive, got: %v", err)
	}
	if len(res.Packages) != 0 {
		t.Errorf("expected no partial results, got %v", packageNames(res.Packages))
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/empty", 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := Scan(fs, "/empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Packages) != 0 {
		t.Errorf("expected no packages, got %d", len(res.Packages))
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	t.Parallel()

	if _, err := Scan(afero.NewMemMapFs(), "/nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := Scan(afero.NewMemMapFs(), "  "); !errors.Is(err, types.ErrInvalidFilesystemPath) {
		t.Fatalf("expected ErrInvalidFilesystemPath, got: %v", err)
	}
}
