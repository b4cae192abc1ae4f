// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wheelpack/wheelpack/internal/config"
	"github.com/wheelpack/wheelpack/internal/discovery"
	"github.com/wheelpack/wheelpack/internal/emit"
	"github.com/wheelpack/wheelpack/internal/issue"
	"github.com/wheelpack/wheelpack/internal/plan"
	"github.com/wheelpack/wheelpack/internal/resolve"
	"github.com/wheelpack/wheelpack/internal/watch"
	"github.com/wheelpack/wheelpack/pkg/fspath"
	"github.com/wheelpack/wheelpack/pkg/types"
	"github.com/wheelpack/wheelpack/pkg/wheel"
)

// planFlags holds the plan command's overrides. Only flags the user set are
// applied over the loaded configuration.
type planFlags struct {
	dir          string
	out          string
	noVenv       bool
	noInstalled  bool
	format       string
	manifest     string
	inventory    string
	python       string
	sitePackages string
	lookupURL    string
	watch        bool
}

func newPlanCommand(app *App) *cobra.Command {
	var f planFlags

	planCmd := &cobra.Command{
		Use:   "plan <wheel>",
		Short: "Resolve a wheel's dependencies and write an installer script",
		Long: `Resolve a wheel's dependencies and write an installer script.

Every dependency of the wheel is looked up first among the installed packages
and then among the wheels in the search directory, transitively. Found
dependencies are printed with '+', missing ones with '-'.

When everything is found, the packages are put in an order where each one
comes after its dependencies and install_<name>.sh (or .bat) is written.
When something is missing, nothing is written and the command exits with
status 2 after listing where to download the missing packages. With --watch
it then keeps running and tries again whenever a wheel lands in the search
directory, until nothing is missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context())
			if err != nil {
				return err
			}
			if err := f.apply(cmd, s.cfg); err != nil {
				return err
			}
			rootPath := types.FilesystemPath(args[0])
			err = runPlan(cmd.Context(), app, s, rootPath)
			if !f.watch || exitCodeOf(err) != types.ExitUnresolved {
				return err
			}
			return watchPlan(cmd.Context(), app, s, rootPath, err)
		},
	}

	flags := planCmd.Flags()
	flags.StringVarP(&f.dir, "dir", "d", "", "directory holding the candidate wheels (default \".\")")
	flags.StringVarP(&f.out, "out", "o", "", "directory the installer script is written to (default \".\")")
	flags.BoolVar(&f.noVenv, "no-venv", false, "do not pass --require-virtualenv to pip")
	flags.BoolVar(&f.noInstalled, "no-installed", false, "ignore installed packages; bundle every dependency")
	flags.StringVarP(&f.format, "format", "f", "", "script format: sh or bat (default depends on the OS)")
	flags.StringVar(&f.manifest, "manifest", "", "also write a bundle manifest: toml or yaml")
	flags.StringVar(&f.inventory, "inventory", "", "installed-package source: pip, site-packages or none")
	flags.StringVar(&f.python, "python", "", "interpreter whose installed packages are checked (default \"python3\")")
	flags.StringVar(&f.sitePackages, "site-packages", "", "read installed packages from this site-packages directory")
	flags.StringVar(&f.lookupURL, "lookup-url", "", "download link template for missing packages, %s is the name")
	flags.BoolVarP(&f.watch, "watch", "w", false, "when dependencies are missing, wait for new wheels and try again")

	return planCmd
}

// apply writes the flags the user set over cfg and re-validates it.
func (f *planFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed

	if set("dir") {
		cfg.SearchDir = types.FilesystemPath(f.dir)
	}
	if set("out") {
		cfg.OutputDir = types.FilesystemPath(f.out)
	}
	if set("no-venv") {
		cfg.RequireVirtualenv = !f.noVenv
	}
	if set("no-installed") {
		cfg.IgnoreInstalled = f.noInstalled
	}
	if set("format") {
		cfg.ScriptFormat = emit.Format(f.format)
	}
	if set("manifest") {
		cfg.ManifestFormat = emit.ManifestFormat(f.manifest)
	}
	if set("python") {
		cfg.Python = f.python
	}
	if set("site-packages") {
		cfg.SitePackages = types.FilesystemPath(f.sitePackages)
		cfg.Inventory = config.InventorySitePackages
	}
	if set("inventory") {
		cfg.Inventory = config.InventorySource(f.inventory)
	}
	if set("lookup-url") {
		cfg.LookupURL = f.lookupURL
	}

	if err := cfg.Validate(); err != nil {
		return issue.NewErrorContext().
			WithOperation("apply command-line flags").
			WithSuggestion("Run 'wheelpack plan --help' to see the accepted values").
			Wrap(err).
			BuildError()
	}
	return nil
}

// runPlan is the full run: read, scan, query, resolve, order, emit.
func runPlan(ctx context.Context, app *App, s *session, rootPath types.FilesystemPath) error {
	cfg := s.cfg
	out := app.stdout

	root, err := readWheel(app.Fs, rootPath)
	if err != nil {
		return err
	}

	candidates, err := scanCandidates(app.Fs, s, cfg.SearchDir, rootPath)
	if err != nil {
		return err
	}

	installed, err := app.Inventory(cfg, s.logger).Installed(ctx)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("list installed packages").
			WithResource(inventoryResource(cfg)).
			WithSuggestion("Pass --no-installed to bundle every dependency instead").
			WithIssue(issue.InventoryFailedId).
			Wrap(err).
			BuildError()
	}
	s.logger.Debug("installed packages", "count", len(installed))

	fmt.Fprintf(out, "%s %s\n", TitleStyle.Render("Resolving"), root)
	resolver := resolve.New(installed, candidates, resolve.WithObserver(resolve.ObserverFunc(func(e resolve.Event) {
		printEvent(out, e)
	})))
	for _, p := range resolver.Index().Shadowed() {
		s.logger.Warn("duplicate wheel ignored", "package", p.Name, "version", p.Version, "path", p.Path)
	}
	res := resolver.Resolve(root)

	order, err := plan.Build(res, installed)
	switch {
	case errors.Is(err, plan.ErrUnresolved):
		printRemaining(out, res.Unresolved, cfg.LookupURL)
		return &ExitError{
			Code: types.ExitUnresolved,
			Err: issue.NewErrorContext().
				WithOperation("resolve dependencies").
				WithResource(root.String()).
				WithSuggestion(fmt.Sprintf("Download the listed packages into %s and run again", cfg.SearchDir)).
				WithIssue(issue.UnresolvedDependenciesId).
				Wrap(err).
				BuildError(),
		}
	case err != nil:
		ec := issue.NewErrorContext().
			WithOperation("order packages").
			WithResource(root.String()).
			WithIssue(issue.UnresolvableOrderId).
			Wrap(err)
		var orderErr *plan.UnresolvableOrderError
		if errors.As(err, &orderErr) && len(orderErr.Cycle) > 0 {
			ec.WithSuggestion("Check whether one of " + strings.Join(orderErr.Cycle[:len(orderErr.Cycle)-1], ", ") + " is the wrong version")
		}
		return ec.BuildError()
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, TitleStyle.Render("Install order"))
	for i, pkg := range order {
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, pkg, SubtitleStyle.Render(pkg.Path.String()))
	}

	return writeArtifacts(app.Fs, out, cfg, root, order)
}

// watchPlan re-runs the plan each time wheels are added to the search
// directory, until a run no longer ends with missing dependencies or ctx is
// cancelled. A scanned wheel that fails to parse is skipped with a warning
// until it changes again. It returns the outcome of the last run.
func watchPlan(ctx context.Context, app *App, s *session, rootPath types.FilesystemPath, last error) error {
	out := app.stdout
	dir := s.cfg.SearchDir

	w, err := watch.New(watch.Config{
		Dir:    dir.String(),
		Logger: s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Debug("new wheels", "files", changed)
			fmt.Fprintln(out)
			last = runPlan(ctx, app, s, rootPath)
			if archiveErr, ok := candidateArchiveError(last, rootPath); ok {
				s.logger.Warn("unreadable wheel, waiting for it to change", "path", archiveErr.Path, "error", archiveErr)
				return nil
			}
			if exitCodeOf(last) == types.ExitUnresolved {
				fmt.Fprintln(out, SubtitleStyle.Render("Still waiting for wheels in "+dir.String()))
				return nil
			}
			return watch.ErrStop
		},
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("watch wheel directory").
			WithResource(dir.String()).
			WithSuggestion("Run without --watch and re-run after downloading").
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s %s\n", TitleStyle.Render("Watching"), dir, SubtitleStyle.Render("for new wheels (Ctrl+C to stop)"))
	if err := w.Run(ctx); err != nil {
		return issue.WrapWithContext(err, "watch wheel directory", dir.String())
	}
	return last
}

// candidateArchiveError reports a scanned wheel other than the root that
// failed to parse. A download still being written in place looks like this.
func candidateArchiveError(err error, root types.FilesystemPath) (*wheel.InvalidArchiveError, bool) {
	var archiveErr *wheel.InvalidArchiveError
	if !errors.As(err, &archiveErr) || fspath.Same(archiveErr.Path, root) {
		return nil, false
	}
	return archiveErr, true
}

// writeArtifacts writes the installer script and, when configured, the manifest.
func writeArtifacts(fs afero.Fs, out io.Writer, cfg *config.Config, root *wheel.Package, order []*wheel.Package) error {
	opts := emit.DefaultOptions()
	opts.RequireVirtualenv = cfg.RequireVirtualenv

	writeFailed := func(err error) error {
		return issue.NewErrorContext().
			WithOperation("write installer script").
			WithResource(cfg.OutputDir.String()).
			WithIssue(issue.ScriptWriteFailedId).
			Wrap(err).
			BuildError()
	}

	if err := fs.MkdirAll(cfg.OutputDir.String(), 0o755); err != nil {
		return writeFailed(err)
	}

	scriptPath, err := emit.WriteScript(fs, cfg.OutputDir, root, order, cfg.ScriptFormat, opts)
	if err != nil {
		return writeFailed(err)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Wrote"), scriptPath)

	if !cfg.ManifestFormat.Enabled() {
		return nil
	}
	m := emit.NewManifest(root, order, scriptPath.Base(), opts)
	manifestPath, err := emit.WriteManifest(fs, cfg.OutputDir, root, m, cfg.ManifestFormat)
	if err != nil {
		return writeFailed(err)
	}
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Wrote"), manifestPath)
	return nil
}

// readWheel reads one wheel and turns failures into actionable errors.
func readWheel(fs afero.Fs, path types.FilesystemPath) (*wheel.Package, error) {
	pkg, err := wheel.Read(fs, path)
	if err == nil {
		return pkg, nil
	}

	ec := issue.NewErrorContext().
		WithOperation("read wheel").
		WithResource(path.String()).
		Wrap(err)
	if errors.Is(err, os.ErrNotExist) {
		ec.WithIssue(issue.WheelNotFoundId).
			WithSuggestion("Check the path; wheel files end in " + wheel.Ext)
	} else {
		ec.WithIssue(issue.InvalidPackageArchiveId).
			WithSuggestion("Download the wheel again or remove it from the directory")
	}
	return nil, ec.BuildError()
}

// scanCandidates lists the wheels in dir other than exclude. Skipped entries
// are logged at debug level.
func scanCandidates(fs afero.Fs, s *session, dir types.FilesystemPath, exclude ...types.FilesystemPath) ([]*wheel.Package, error) {
	res, err := discovery.Scan(fs, dir, exclude...)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("scan wheel directory").
			WithResource(dir.String()).
			Wrap(err)
		var archiveErr *wheel.InvalidArchiveError
		switch {
		case errors.As(err, &archiveErr):
			ec.WithIssue(issue.InvalidPackageArchiveId).
				WithSuggestion(fmt.Sprintf("Download %s again or remove it from the directory", archiveErr.Path.Base()))
		case errors.Is(err, os.ErrNotExist):
			ec.WithIssue(issue.WheelNotFoundId).
				WithSuggestion("Pass the directory holding the downloaded wheels with --dir")
		}
		return nil, ec.BuildError()
	}

	for _, d := range res.Diagnostics {
		s.logger.Debug(d.Message, "path", d.Path, "code", d.Code)
	}
	s.logger.Debug("candidate wheels", "dir", dir, "count", len(res.Packages))
	return res.Packages, nil
}

// printEvent prints one classified dependency as "+ name" or "- name".
func printEvent(w io.Writer, e resolve.Event) {
	symbol := ErrorStyle.Render(e.Status.Symbol())
	var note string
	switch e.Status {
	case resolve.StatusInstalled:
		symbol = SuccessStyle.Render(e.Status.Symbol())
		note = "installed " + e.InstalledVersion
	case resolve.StatusLocal:
		symbol = SuccessStyle.Render(e.Status.Symbol())
		note = e.Package.Path.Base()
	case resolve.StatusUnresolved:
		note = "required by " + e.Parent.Name
	}
	fmt.Fprintf(w, "%s %s %s\n", symbol, e.Dependency, SubtitleStyle.Render("("+note+")"))
}

// printRemaining lists the dependencies still to download with their links.
func printRemaining(w io.Writer, missing []wheel.Dependency, lookupURL string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("Remaining to download (%d):", len(missing))))
	for _, d := range missing {
		fmt.Fprintf(w, "  %s  %s\n", d.Name, CmdStyle.Render(d.LookupURL(lookupURL)))
	}
}

func inventoryResource(cfg *config.Config) string {
	if cfg.Inventory == config.InventorySitePackages {
		return cfg.SitePackages.String()
	}
	return cfg.Python
}
