// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPython is the interpreter queried when none is configured.
const DefaultPython = "python3"

type (
	// Runner executes a program and returns its standard output.
	Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

	// Pip lists installed packages with "<python> -m pip list --format=json".
	Pip struct {
		// Python is the interpreter to ask. Empty means DefaultPython.
		Python string
		// Run overrides process execution (tests).
		Run Runner
	}

	pipEntry struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
)

// Installed runs pip and parses its JSON listing.
func (p Pip) Installed(ctx context.Context) (Snapshot, error) {
	python := p.Python
	if python == "" {
		python = DefaultPython
	}
	run := p.Run
	if run == nil {
		run = execRunner
	}

	out, err := run(ctx, python, "-m", "pip", "list", "--format=json", "--disable-pip-version-check")
	if err != nil {
		return nil, fmt.Errorf("list installed packages with %s: %w", python, err)
	}
	return parsePipList(out)
}

func parsePipList(out []byte) (Snapshot, error) {
	var entries []pipEntry
	if err := json.Unmarshal(bytes.TrimSpace(out), &entries); err != nil {
		return nil, fmt.Errorf("parse pip list output: %w", err)
	}
	snap := make(Snapshot, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		snap.add(e.Name, e.Version)
	}
	return snap, nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return out, nil
}
