// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/issue"
	"github.com/wheelpack/wheelpack/pkg/types"
)

func TestHandleError(t *testing.T) {
	t.Parallel()

	cause := errors.New("liba -> libb -> liba")
	actionable := issue.NewErrorContext().
		WithOperation("order packages").
		WithResource("app 1.0").
		WithSuggestion("Check the versions").
		WithIssue(issue.UnresolvableOrderId).
		Wrap(cause).
		BuildError()

	tests := []struct {
		name     string
		err      error
		verbose  bool
		want     []string
		wantNone bool
	}{
		{
			name:     "bare exit error prints nothing",
			err:      &ExitError{Code: types.ExitUnresolved},
			wantNone: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: []string{"Error:", "boom"},
		},
		{
			name: "actionable error with issue page",
			err:  actionable,
			want: []string{"failed to order packages: app 1.0", "Check the versions", "No install order exists"},
		},
		{
			name:    "verbose adds the chain",
			err:     &ExitError{Code: types.ExitFailure, Err: actionable},
			verbose: true,
			want:    []string{"Error chain:", "liba -> libb -> liba"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			app, err := NewApp(Dependencies{Stdout: &stderr, Stderr: &stderr})
			if err != nil {
				t.Fatalf("NewApp() error = %v", err)
			}
			app.flags.verbose = tt.verbose
			app.ui.ColorScheme = config.ColorSchemeNoTTY

			var out bytes.Buffer
			app.handleError(&out, fang.Styles{}, tt.err)

			if tt.wantNone {
				if out.Len() != 0 {
					t.Errorf("handleError() wrote %q, want nothing", out.String())
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeAuto, "auto"},
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
		{config.ColorSchemeNoTTY, "notty"},
		{"", "auto"},
	}
	for _, tt := range tests {
		if got := glamourStyle(tt.scheme); got != tt.want {
			t.Errorf("glamourStyle(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}
