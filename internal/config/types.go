// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wheelpack/wheelpack/internal/emit"
	"github.com/wheelpack/wheelpack/internal/inventory"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const (
	// InventoryPip asks the target interpreter's pip.
	InventoryPip InventorySource = "pip"
	// InventorySitePackages reads a site-packages directory.
	InventorySitePackages InventorySource = "site-packages"
	// InventoryNone treats the target environment as empty.
	InventoryNone InventorySource = "none"

	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
	// ColorSchemeNoTTY disables colors.
	ColorSchemeNoTTY ColorScheme = "notty"
)

var (
	// ErrInvalidInventorySource is returned when an InventorySource value is not recognized.
	ErrInvalidInventorySource = errors.New("invalid inventory source")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLookupURL is returned when a lookup URL has no usable form.
	ErrInvalidLookupURL = errors.New("invalid lookup url")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// InventorySource selects the inventory.Inventory implementation.
	InventorySource string

	// InvalidInventorySourceError is returned when an InventorySource value is not recognized.
	// It wraps ErrInvalidInventorySource for errors.Is() compatibility.
	InvalidInventorySourceError struct {
		Value InventorySource
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidLookupURLError is returned for a lookup URL with more than one %s.
	InvalidLookupURLError struct {
		Value string
	}

	// InvalidConfigError collects every field error found in a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		RequireVirtualenv bool                 `json:"require_virtualenv" mapstructure:"require_virtualenv"`
		IgnoreInstalled   bool                 `json:"ignore_installed" mapstructure:"ignore_installed"`
		SearchDir         types.FilesystemPath `json:"search_dir" mapstructure:"search_dir"`
		OutputDir         types.FilesystemPath `json:"output_dir" mapstructure:"output_dir"`
		ScriptFormat      emit.Format          `json:"script_format" mapstructure:"script_format"`
		// ManifestFormat is empty when no manifest is written.
		ManifestFormat emit.ManifestFormat  `json:"manifest_format" mapstructure:"manifest_format"`
		Inventory      InventorySource      `json:"inventory" mapstructure:"inventory"`
		Python         string               `json:"python" mapstructure:"python"`
		SitePackages   types.FilesystemPath `json:"site_packages" mapstructure:"site_packages"`
		LookupURL      string               `json:"lookup_url" mapstructure:"lookup_url"`
		UI             UIConfig             `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RequireVirtualenv: true,
		IgnoreInstalled:   false,
		SearchDir:         ".",
		OutputDir:         ".",
		ScriptFormat:      emit.DefaultFormat(),
		ManifestFormat:    emit.ManifestNone,
		Inventory:         InventoryPip,
		Python:            inventory.DefaultPython,
		SitePackages:      "",
		LookupURL:         wheel.DefaultLookupURL,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// Validate checks every field and returns an *InvalidConfigError listing
// all problems, or nil.
func (c Config) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{c.SearchDir, c.OutputDir} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.ScriptFormat.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ManifestFormat.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Inventory.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Inventory == InventorySitePackages {
		if err := c.SitePackages.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("site_packages is required for the site-packages inventory: %w", err))
		}
	}
	if strings.Count(c.LookupURL, "%s") > 1 {
		errs = append(errs, &InvalidLookupURLError{Value: c.LookupURL})
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the string representation of the InventorySource.
func (s InventorySource) String() string { return string(s) }

// Validate returns an error if the InventorySource is not one of the defined values.
func (s InventorySource) Validate() error {
	switch s {
	case InventoryPip, InventorySitePackages, InventoryNone:
		return nil
	default:
		return &InvalidInventorySourceError{Value: s}
	}
}

// Error implements the error interface for InvalidInventorySourceError.
func (e *InvalidInventorySourceError) Error() string {
	return fmt.Sprintf("invalid inventory source %q (valid: pip, site-packages, none)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidInventorySourceError) Unwrap() error { return ErrInvalidInventorySource }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns an error if the ColorScheme is not one of the defined values.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight, ColorSchemeNoTTY:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light, notty)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidLookupURLError.
func (e *InvalidLookupURLError) Error() string {
	return fmt.Sprintf("invalid lookup url %q: at most one %%s placeholder is allowed", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLookupURLError) Unwrap() error { return ErrInvalidLookupURL }
