// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and reach
	// configuration, the filesystem and the installed-package inventory through it.
	App struct {
		Config    ConfigProvider
		Fs        afero.Fs
		Inventory InventoryFactory
		stdout    io.Writer
		stderr    io.Writer

		flags globalFlags
		// ui is the terminal setup of the current invocation, recorded once
		// configuration is loaded so the error handler renders consistently.
		ui config.UIConfig
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Fs        afero.Fs
		Inventory InventoryFactory
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// InventoryFactory picks the installed-package source for a configuration.
	InventoryFactory func(cfg *config.Config, logger *log.Logger) inventory.Inventory

	globalFlags struct {
		verbose    bool
		configPath string
	}

	// session is the per-invocation state shared by a command's steps.
	session struct {
		cfg *config.Config
		// path is the config file that was merged, "" for defaults only.
		path   types.FilesystemPath
		logger *log.Logger
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Inventory == nil {
		deps.Inventory = newInventory(deps.Fs)
	}

	return &App{
		Config:    deps.Config,
		Fs:        deps.Fs,
		Inventory: deps.Inventory,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		ui:        config.DefaultConfig().UI,
	}, nil
}

// load reads the configuration for this invocation and applies the global
// flags on top of it.
func (a *App) load(ctx context.Context) (*session, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.flags.configPath),
	})
	if err != nil {
		return nil, err
	}

	cfg := loaded.Config
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}
	a.ui = cfg.UI
	applyColorScheme(cfg.UI.ColorScheme)

	return &session{
		cfg:    cfg,
		path:   loaded.Path,
		logger: newLogger(a.stderr, cfg.UI.Verbose),
	}, nil
}

// verbose reports whether the current invocation runs in verbose mode.
func (a *App) verbose() bool {
	return a.flags.verbose || a.ui.Verbose
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// newInventory returns the production InventoryFactory.
func newInventory(fs afero.Fs) InventoryFactory {
	return func(cfg *config.Config, logger *log.Logger) inventory.Inventory {
		if cfg.IgnoreInstalled {
			return inventory.None()
		}
		switch cfg.Inventory {
		case config.InventorySitePackages:
			return inventory.SitePackages{Fs: fs, Dir: cfg.SitePackages, Logger: logger}
		case config.InventoryNone:
			return inventory.None()
		default:
			return inventory.Pip{Python: cfg.Python}
		}
	}
}
