// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

func newInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <wheel>",
		Short: "Show the metadata wheelpack reads from a wheel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.load(cmd.Context()); err != nil {
				return err
			}
			pkg, err := readWheel(app.Fs, types.FilesystemPath(args[0]))
			if err != nil {
				return err
			}
			printPackage(app.stdout, pkg)
			return nil
		},
	}
}

func printPackage(w io.Writer, pkg *wheel.Package) {
	keyStyle := CmdStyle

	fmt.Fprintln(w, TitleStyle.Render(pkg.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Path"), pkg.Path)
	if pkg.Summary != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Summary"), pkg.Summary)
	}
	if pkg.RequiresPython != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Requires-Python"), pkg.RequiresPython)
	}

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("Requires"))
	if len(pkg.Requires) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none)"))
		return
	}
	for _, d := range pkg.Requires {
		fmt.Fprintf(w, "  - %s\n", d)
	}
}
