// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/wheelpack/wheelpack/internal/issue"
	"github.com/wheelpack/wheelpack/pkg/cueutil"
	"github.com/wheelpack/wheelpack/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "wheelpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WHEELPACK"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns <user config dir>/wheelpack, e.g. ~/.config/wheelpack
// on Linux or %APPDATA%\wheelpack on Windows.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return types.FilesystemPath(filepath.Join(dir, AppName)), nil
}

// loadWithOptions builds a fresh viper instance per call, so loads never
// share state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path.String()).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the values with 'wheelpack config show'").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the schema, so validate the merged result.
	if err := cfg.Validate(); err != nil {
		ec := issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check WHEELPACK_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err)
		if path != "" {
			ec.WithResource(path.String())
		}
		return nil, "", ec.BuildError()
	}

	return &cfg, path, nil
}

// locate returns the config file to load, or "" when none exists.
// An explicit ConfigFilePath must exist.
func locate(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath.String()).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'wheelpack config init' to create a default file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	var candidates []types.FilesystemPath
	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		// A missing user config dir ($HOME unset) only skips that location.
		cfgDir, _ = ConfigDir()
	}
	if cfgDir != "" {
		candidates = append(candidates, types.FilesystemPath(filepath.Join(cfgDir.String(), fileName())))
	}
	candidates = append(candidates, types.FilesystemPath(filepath.Join(opts.BaseDir.String(), fileName())))

	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", nil
}

func fileName() string { return ConfigFileName + "." + ConfigFileExt }

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("require_virtualenv", d.RequireVirtualenv)
	v.SetDefault("ignore_installed", d.IgnoreInstalled)
	v.SetDefault("search_dir", d.SearchDir.String())
	v.SetDefault("output_dir", d.OutputDir.String())
	v.SetDefault("script_format", d.ScriptFormat.String())
	v.SetDefault("manifest_format", d.ManifestFormat.String())
	v.SetDefault("inventory", d.Inventory.String())
	v.SetDefault("python", d.Python)
	v.SetDefault("site_packages", d.SitePackages.String())
	v.SetDefault("lookup_url", d.LookupURL)
	v.SetDefault("ui.color_scheme", d.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", d.UI.Verbose)
}

// loadCUEIntoViper validates the file against #Config and merges it over
// the defaults already set in v.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, "#Config", data, path.String())
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path types.FilesystemPath) bool {
	info, err := os.Stat(path.String())
	return err == nil && !info.IsDir()
}

// WriteDefault writes the default configuration to path unless a file is
// already there. It reports whether a file was written.
func WriteDefault(path types.FilesystemPath) (bool, error) {
	if _, err := os.Stat(path.String()); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path.String()), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path.String(), []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg as a config file that validates against #Config.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// wheelpack configuration\n\n")
	fmt.Fprintf(&sb, "require_virtualenv: %v\n", cfg.RequireVirtualenv)
	fmt.Fprintf(&sb, "ignore_installed:   %v\n", cfg.IgnoreInstalled)
	fmt.Fprintf(&sb, "search_dir:         %q\n", cfg.SearchDir)
	fmt.Fprintf(&sb, "output_dir:         %q\n", cfg.OutputDir)
	fmt.Fprintf(&sb, "script_format:      %q\n", cfg.ScriptFormat)
	fmt.Fprintf(&sb, "manifest_format:    %q\n", cfg.ManifestFormat)
	fmt.Fprintf(&sb, "inventory:          %q\n", cfg.Inventory)
	fmt.Fprintf(&sb, "python:             %q\n", cfg.Python)
	if cfg.SitePackages != "" {
		fmt.Fprintf(&sb, "site_packages:      %q\n", cfg.SitePackages)
	}
	fmt.Fprintf(&sb, "lookup_url:         %q\n", cfg.LookupURL)

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
