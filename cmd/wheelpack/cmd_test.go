// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/emit"
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/pkg/types"
)

type (
	// staticConfig is a ConfigProvider returning a copy of a fixed config.
	staticConfig struct {
		cfg  *config.Config
		path string
		err  error
	}

	failingInventory struct{ err error }

	testEnv struct {
		app    *App
		fs     afero.Fs
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		// lastConfig is the configuration the inventory factory last saw.
		lastConfig *config.Config
	}
)

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Loaded, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &config.Loaded{Config: &cfg, Path: types.FilesystemPath(s.path)}, nil
}

func (f failingInventory) Installed(context.Context) (inventory.Snapshot, error) {
	return nil, f.err
}

// newTestEnv builds an App over an in-memory filesystem. installed is the
// snapshot every inventory reports unless the config ignores it.
func newTestEnv(t *testing.T, installed map[string]string, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.ScriptFormat = emit.FormatSh
	if mutate != nil {
		mutate(cfg)
	}

	env := &testEnv{
		fs:     afero.NewMemMapFs(),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	app, err := NewApp(Dependencies{
		Config: staticConfig{cfg: cfg},
		Fs:     env.fs,
		Inventory: func(c *config.Config, _ *log.Logger) inventory.Inventory {
			env.lastConfig = c
			if c.IgnoreInstalled {
				return inventory.None()
			}
			return inventory.Static{Packages: installed}
		},
		Stdout: env.stdout,
		Stderr: env.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	env.app = app
	return env
}

// run executes the command tree with args, bypassing fang.
func (e *testEnv) run(args ...string) error {
	root := NewRootCommand(e.app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestNewAppDefaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.Config == nil || app.Fs == nil || app.Inventory == nil {
		t.Fatalf("NewApp() left a nil dependency: %+v", app)
	}
	if app.stdout == nil || app.stderr == nil {
		t.Error("NewApp() left a nil writer")
	}
}

func TestNewInventory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	factory := newInventory(fs)

	tests := []struct {
		name   string
		mutate func(*config.Config)
		check  func(t *testing.T, inv inventory.Inventory)
	}{
		{
			name:   "pip by default",
			mutate: func(c *config.Config) { c.Python = "python3.12" },
			check: func(t *testing.T, inv inventory.Inventory) {
				t.Helper()
				pip, ok := inv.(inventory.Pip)
				if !ok {
					t.Fatalf("inventory = %T, want inventory.Pip", inv)
				}
				if pip.Python != "python3.12" {
					t.Errorf("Python = %q, want %q", pip.Python, "python3.12")
				}
			},
		},
		{
			name: "site-packages",
			mutate: func(c *config.Config) {
				c.Inventory = config.InventorySitePackages
				c.SitePackages = "/venv/lib/site-packages"
			},
			check: func(t *testing.T, inv inventory.Inventory) {
				t.Helper()
				sp, ok := inv.(inventory.SitePackages)
				if !ok {
					t.Fatalf("inventory = %T, want inventory.SitePackages", inv)
				}
				if sp.Dir != "/venv/lib/site-packages" {
					t.Errorf("Dir = %q", sp.Dir)
				}
			},
		},
		{
			name:   "none",
			mutate: func(c *config.Config) { c.Inventory = config.InventoryNone },
			check:  expectEmptyInventory,
		},
		{
			name:   "ignore installed wins over the source",
			mutate: func(c *config.Config) { c.IgnoreInstalled = true },
			check:  expectEmptyInventory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			tt.check(t, factory(cfg, log.New(io.Discard)))
		})
	}
}

func expectEmptyInventory(t *testing.T, inv inventory.Inventory) {
	t.Helper()
	snap, err := inv.Installed(context.Background())
	if err != nil {
		t.Fatalf("Installed() error = %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("Installed() = %v, want empty", snap)
	}
}

func TestConfigLoadErrorIsReturned(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("boom")
	app, err := NewApp(Dependencies{
		Config: staticConfig{err: loadErr},
		Fs:     afero.NewMemMapFs(),
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs([]string{"config", "show"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); !errors.Is(err, loadErr) {
		t.Errorf("config show error = %v, want %v", err, loadErr)
	}
}
