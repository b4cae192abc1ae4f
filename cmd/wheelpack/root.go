// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the wheelpack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wheelpack",
		Short: "Plan offline installs of Python wheel bundles",
		Long: TitleStyle.Render("wheelpack") + SubtitleStyle.Render(" - Plan offline installs of Python wheel bundles") + `

wheelpack reads a wheel, looks for its dependencies among the wheels in a
directory and among the packages already installed, and writes a script that
installs everything in dependency order without touching the network.

Anything it cannot find is listed with a download link. Download those,
run it again, and repeat until nothing is missing.

` + SubtitleStyle.Render("Examples:") + `
  wheelpack plan app-1.0-py3-none-any.whl            Resolve and write install_app.sh
  wheelpack plan app.whl --dir ./wheels --format bat Look in ./wheels, write a batch file
  wheelpack inspect app.whl                          Show a wheel's metadata
  wheelpack scan ./wheels                            List candidate wheels
  wheelpack config show                              Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/wheelpack/config.cue)")

	rootCmd.AddCommand(newPlanCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newScanCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through fang.WithVersion.
	err = fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	os.Exit(int(exitCodeOf(err)))
}
