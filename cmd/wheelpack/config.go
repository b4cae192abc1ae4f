// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/issue"
	"github.com/wheelpack/wheelpack/pkg/types"
)

// newConfigCommand creates the `wheelpack config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage wheelpack configuration",
		Long: `Manage wheelpack configuration.

Configuration is stored in:
  - Linux: ~/.config/wheelpack/config.cue
  - macOS: ~/Library/Application Support/wheelpack/config.cue
  - Windows: %APPDATA%\wheelpack\config.cue

A config.cue in the working directory is used when the user file is absent.
Every key can also be set through a WHEELPACK_<KEY> environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := userConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	s, err := app.load(ctx)
	if err != nil {
		return err
	}
	cfg := s.cfg
	out := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	row := func(key string, value any) {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if s.path != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), s.path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	row("require_virtualenv", cfg.RequireVirtualenv)
	row("ignore_installed", cfg.IgnoreInstalled)
	row("search_dir", cfg.SearchDir)
	row("output_dir", cfg.OutputDir)
	row("script_format", cfg.ScriptFormat)
	if cfg.ManifestFormat.Enabled() {
		row("manifest_format", cfg.ManifestFormat)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("manifest_format"), SubtitleStyle.Render("(none)"))
	}
	row("inventory", cfg.Inventory)
	row("python", cfg.Python)
	if cfg.SitePackages != "" {
		row("site_packages", cfg.SitePackages)
	}
	row("lookup_url", cfg.LookupURL)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	return nil
}

func initConfig(app *App) error {
	path, err := userConfigPath()
	if err != nil {
		return err
	}

	created, err := config.WriteDefault(path)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create configuration file").
			WithResource(path.String()).
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Already exists:"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
	return nil
}

func userConfigPath() (types.FilesystemPath, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return types.FilesystemPath(filepath.Join(dir.String(), config.ConfigFileName+"."+config.ConfigFileExt)), nil
}
