// SPDX-License-Identifier: MPL-2.0

package wheel

import (
	"archive/zip"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/wheelpack/wheelpack/pkg/types"
)

// Ext is the file extension of wheel archives.
const Ext = ".whl"

// DefaultMaxMetadataSize bounds how much of a METADATA entry is read.
const DefaultMaxMetadataSize = 16 << 20

// metadataEntry matches "<top>.dist-info/METADATA" at the archive root only.
var metadataEntry = regexp.MustCompile(`^[^/]+\.dist-info/METADATA$`)

// Read opens the wheel at path on fs and parses its METADATA record.
// The archive is closed before Read returns.
func Read(fs afero.Fs, path types.FilesystemPath) (*Package, error) {
	f, err := fs.Open(string(path))
	if err != nil {
		return nil, &InvalidArchiveError{Path: path, Reason: ReasonUnreadable, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &InvalidArchiveError{Path: path, Reason: ReasonUnreadable, Err: err}
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, &InvalidArchiveError{Path: path, Reason: ReasonUnreadable, Err: err}
	}

	data, err := readMetadata(zr)
	if err != nil {
		return nil, withPath(err, path)
	}
	return Parse(data, path)
}

// ReadFile is Read on the OS filesystem.
func ReadFile(path types.FilesystemPath) (*Package, error) {
	return Read(afero.NewOsFs(), path)
}

// IsMetadataEntry reports whether an archive entry name is a top-level
// .dist-info/METADATA record.
func IsMetadataEntry(name string) bool {
	return metadataEntry.MatchString(name)
}

func readMetadata(zr *zip.Reader) ([]byte, error) {
	var entries []*zip.File
	for _, f := range zr.File {
		if IsMetadataEntry(f.Name) {
			entries = append(entries, f)
		}
	}

	switch len(entries) {
	case 0:
		return nil, &InvalidArchiveError{Reason: ReasonMetadataMissing}
	case 1:
	default:
		names := make([]string, len(entries))
		for i, f := range entries {
			names[i] = f.Name
		}
		return nil, &InvalidArchiveError{Reason: ReasonMetadataAmbiguous, Detail: strings.Join(names, ", ")}
	}

	entry := entries[0]
	rc, err := entry.Open()
	if err != nil {
		return nil, &InvalidArchiveError{Reason: ReasonUnreadable, Detail: entry.Name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, DefaultMaxMetadataSize+1))
	if err != nil {
		return nil, &InvalidArchiveError{Reason: ReasonUnreadable, Detail: entry.Name, Err: err}
	}
	if len(data) > DefaultMaxMetadataSize {
		return nil, &InvalidArchiveError{
			Reason: ReasonUnreadable,
			Detail: entry.Name,
			Err:    fmt.Errorf("entry exceeds %d bytes", DefaultMaxMetadataSize),
		}
	}
	return data, nil
}
