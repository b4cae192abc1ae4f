// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

const distInfoSuffix = ".dist-info"

// SitePackages reads installed distributions straight from a site-packages
// directory, without running an interpreter. Each "<name>.dist-info"
// directory contributes the Name and Version from its METADATA.
type SitePackages struct {
	Fs     afero.Fs
	Dir    types.FilesystemPath
	Logger *log.Logger
}

// Installed scans Dir. Distributions with unreadable metadata are skipped
// with a warning; they cannot satisfy a dependency by name anyway.
func (s SitePackages) Installed(ctx context.Context) (Snapshot, error) {
	if err := s.Dir.Validate(); err != nil {
		return nil, fmt.Errorf("site-packages directory: %w", err)
	}
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	entries, err := afero.ReadDir(fs, string(s.Dir))
	if err != nil {
		return nil, fmt.Errorf("read site-packages %s: %w", s.Dir, err)
	}

	snap := make(Snapshot)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), distInfoSuffix) {
			continue
		}

		metaPath := fspath.JoinStr(s.Dir, entry.Name(), "METADATA")
		data, err := afero.ReadFile(fs, string(metaPath))
		if err != nil {
			s.warn("skipping distribution", "path", metaPath, "err", err)
			continue
		}
		md, err := wheel.ParseMetadata(data)
		if err != nil {
			s.warn("skipping distribution", "path", metaPath, "err", err)
			continue
		}
		name, okName := md.Value(wheel.HeaderName)
		version, _ := md.Value(wheel.HeaderVersion)
		if !okName || name == "" {
			s.warn("skipping distribution without a name", "path", metaPath)
			continue
		}
		snap.add(name, version)
	}
	return snap, nil
}

func (s SitePackages) warn(msg string, keyvals ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, keyvals...)
	}
}
