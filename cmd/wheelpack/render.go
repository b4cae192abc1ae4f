// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/wheelpack/wheelpack/internal/issue"
)

// handleError is the fang error handler. A bare ExitError only carries an
// exit code and prints nothing; everything else is shown with its
// suggestions and, when linked, the matching issue page.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose()))

	if is, ok := issue.IssueOf(err); ok {
		a.renderIssue(w, is)
	}
}

// renderIssue prints a catalog page with the configured glamour style.
// Render failures are logged and otherwise ignored.
func (a *App) renderIssue(w io.Writer, is *issue.Issue) {
	rendered, err := is.Render(glamourStyle(a.ui.ColorScheme))
	if err != nil {
		newLogger(a.stderr, a.verbose()).Warn("failed to render issue page", "issue", is.Id(), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
