// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/wheelpack/wheelpack/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the user config directory when set.
		ConfigDirPath types.FilesystemPath
		// BaseDir is where ./config.cue is looked up. Empty means the
		// working directory.
		BaseDir types.FilesystemPath
	}

	// InvalidLoadOptionsError collects field errors found in LoadOptions.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Loaded is a configuration together with the file it came from.
	Loaded struct {
		Config *Config
		// Path is the config file that was merged, or "" when only
		// defaults and environment overrides apply.
		Path types.FilesystemPath
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path}, nil
}

// Validate rejects whitespace-only paths. Empty fields are allowed.
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.BaseDir} {
		if p == "" {
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
