// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/emit"
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/internal/issue"
	"github.com/wheelpack/wheelpack/internal/testutil"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

// lockedBuffer is a bytes.Buffer safe to write from the command goroutine
// while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// waitForOutput polls w until it contains text. It fails if the command
// returns first or nothing shows up in time.
func waitForOutput(t *testing.T, w *lockedBuffer, text string, done <-chan error) {
	t.Helper()

	deadline := time.After(10 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for !strings.Contains(w.String(), text) {
		select {
		case err := <-done:
			t.Fatalf("plan returned before %q appeared: %v\n%s", text, err, w)
		case <-deadline:
			t.Fatalf("timed out waiting for %q:\n%s", text, w)
		case <-tick.C:
		}
	}
}

func TestPlanWatchCompletesWhenWheelArrives(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	wheels := filepath.Join(base, "wheels")
	out := filepath.Join(base, "out")
	if err := os.MkdirAll(wheels, 0o755); err != nil {
		t.Fatal(err)
	}
	rootPath := testutil.WriteWheel(t, base, testutil.WheelSpec{Name: "app", Version: "1.0", Requires: []string{"libx"}})

	cfg := config.DefaultConfig()
	cfg.ScriptFormat = emit.FormatSh
	cfg.SearchDir = types.FilesystemPath(wheels)
	cfg.OutputDir = types.FilesystemPath(out)

	stdout, stderr := &lockedBuffer{}, &lockedBuffer{}
	app, err := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Fs:     afero.NewOsFs(),
		Inventory: func(*config.Config, *log.Logger) inventory.Inventory {
			return inventory.None()
		},
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		root := NewRootCommand(app)
		root.SetArgs([]string{"plan", rootPath, "--watch"})
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		done <- root.ExecuteContext(ctx)
	}()

	waitForOutput(t, stdout, "Watching", done)

	// A wheel nothing needs leaves the bundle incomplete.
	testutil.WriteWheel(t, wheels, testutil.WheelSpec{Name: "other", Version: "1.0"})
	waitForOutput(t, stdout, "Still waiting", done)

	// A download still being written is skipped, not fatal.
	libx := filepath.Join(wheels, "libx-2.0-py3-none-any.whl")
	if err := os.WriteFile(libx, []byte("PK\x03\x04 partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForOutput(t, stderr, "unreadable wheel", done)

	testutil.WriteWheel(t, wheels, testutil.WheelSpec{Name: "libx", Version: "2.0"})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("plan --watch error = %v\nstdout:\n%s\nstderr:\n%s", err, stdout, stderr)
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("plan --watch did not finish after the wheel arrived:\n%s", stdout)
	}

	script, err := os.ReadFile(filepath.Join(out, "install_app.sh"))
	if err != nil {
		t.Fatalf("installer script not written: %v", err)
	}
	libxAt := strings.Index(string(script), "libx-2.0-py3-none-any.whl")
	appAt := strings.Index(string(script), "app-1.0-py3-none-any.whl")
	if libxAt < 0 || appAt < 0 || libxAt > appAt {
		t.Errorf("script must install libx before app:\n%s", script)
	}
	if strings.Contains(string(script), "other-1.0") {
		t.Errorf("script installs a wheel nothing requires:\n%s", script)
	}
}

func TestCandidateArchiveError(t *testing.T) {
	t.Parallel()

	root := types.FilesystemPath("/src/app-1.0-py3-none-any.whl")
	candidate := &wheel.InvalidArchiveError{Path: "/wheels/libx-2.0-py3-none-any.whl", Reason: wheel.ReasonUnreadable}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "unrelated error", err: errors.New("boom"), want: false},
		{name: "root archive", err: &wheel.InvalidArchiveError{Path: root, Reason: wheel.ReasonUnreadable}, want: false},
		{name: "candidate archive", err: candidate, want: true},
		{
			name: "candidate wrapped by the scan",
			err:  issue.NewErrorContext().WithOperation("scan wheel directory").Wrap(candidate).BuildError(),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := candidateArchiveError(tt.err, root)
			if ok != tt.want {
				t.Fatalf("candidateArchiveError() ok = %v, want %v", ok, tt.want)
			}
			if ok && got.Path != candidate.Path {
				t.Errorf("Path = %q, want %q", got.Path, candidate.Path)
			}
		})
	}
}
