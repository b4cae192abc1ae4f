// SPDX-License-Identifier: MPL-2.0

// Package watch reports new wheels in a directory.
//
// A Watcher monitors one directory (not its subdirectories, matching the
// scanner) and invokes a callback after a debounce period. Events within the
// debounce window are coalesced so the callback fires once with every file
// that changed. Partial downloads are ignored, so a browser writing
// "x.whl.part" and renaming it to "x.whl" triggers one callback for x.whl.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay after the last event before the callback fires.
const defaultDebounce = 500 * time.Millisecond

// ErrStop is returned by an OnChange callback to end Run without error.
var ErrStop = errors.New("stop watching")

var (
	// defaultPatterns selects wheel archives.
	defaultPatterns = []string{"*.whl"}

	// defaultIgnores are in-progress downloads, editor leftovers and hidden
	// files. They always apply on top of Config.Ignore.
	defaultIgnores = []string{
		".*",
		"*.part",
		"*.crdownload",
		"*.download",
		"*.tmp",
		"*~",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dir is the directory to watch. It must exist.
		Dir string

		// Patterns are doublestar glob patterns matched against file names.
		// Empty means "*.whl".
		Patterns []string

		// Ignore are extra patterns for names that never trigger the callback.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated names of changed files.
		// Returning ErrStop ends Run cleanly; any other error ends Run with
		// that error.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives non-fatal watcher errors. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a directory and fires a debounced callback when
	// matching files are created or written. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		debounce time.Duration
		dir      string
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New creates a Watcher for cfg.Dir.
func New(cfg Config) (*Watcher, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", dir)
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = defaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch: add directory %q: %w", dir, err)
	}

	return &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: slices.Clone(patterns),
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		dir:      dir,
		logger:   logger,
	}, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Run blocks until ctx is cancelled or the callback stops it. Callbacks run
// on the calling goroutine, so they never overlap; events arriving during a
// callback are collected for the next one.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(evt.Name)
			if w.isIgnored(name) || !w.matchesPatterns(name) {
				continue
			}

			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if w.cfg.OnChange == nil {
				continue
			}
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// isFatal reports whether err means the watcher can no longer deliver
// events. The errno set is per platform.
func isFatal(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(name string) bool {
	return matchAny(w.ignores, name)
}

func (w *Watcher) matchesPatterns(name string) bool {
	return matchAny(w.patterns, name)
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern is a valid doublestar glob.
// The label (e.g., "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
