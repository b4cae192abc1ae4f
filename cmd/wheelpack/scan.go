// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wheelpack/wheelpack/internal/resolve"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

func newScanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [dir]",
		Short: "List the candidate wheels in a directory",
		Long: `List the candidate wheels in a directory.

Only files directly inside the directory are read. When two wheels have the
same package name, the first in file-name order is used and the others are
marked as ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context())
			if err != nil {
				return err
			}
			dir := s.cfg.SearchDir
			if len(args) == 1 {
				dir = types.FilesystemPath(args[0])
			}

			candidates, err := scanCandidates(app.Fs, s, dir)
			if err != nil {
				return err
			}

			index := resolve.NewIndex(candidates)
			shadowed := make(map[*wheel.Package]bool)
			for _, p := range index.Shadowed() {
				shadowed[p] = true
			}

			out := app.stdout
			fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("Wheels in"), dir)
			if len(candidates) == 0 {
				fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none)"))
				return nil
			}
			for _, p := range candidates {
				line := fmt.Sprintf("  %s %s", p, SubtitleStyle.Render(p.Path.Base()))
				if shadowed[p] {
					line += " " + WarningStyle.Render("(ignored: duplicate of an earlier wheel)")
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "\n%d wheel(s), %d package(s)\n", len(candidates), index.Len())
			return nil
		},
	}
}
