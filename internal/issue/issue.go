// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	InvalidPackageArchiveId Id = iota + 1
	WheelNotFoundId
	UnresolvedDependenciesId
	UnresolvableOrderId
	InventoryFailedId
	ConfigLoadFailedId
	ScriptWriteFailedId
)

type (
	// Id identifies a catalog page.
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is one markdown help page.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the page with its links appended as a "See also" list.
func (i *Issue) Markdown() string {
	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	if len(i.docLinks)+len(i.extLinks) > 0 {
		b.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			b.WriteString("- <" + string(link) + ">\n")
		}
	}
	return b.String()
}

// Render renders the page with the given glamour style ("dark", "light",
// "notty" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	invalidPackageArchiveIssue = &Issue{
		id: InvalidPackageArchiveId,
		mdMsg: `
# Not a usable wheel

A file could not be read as a wheel archive. wheelpack needs exactly one
` + "`<name>.dist-info/METADATA`" + ` entry with ` + "`Name`" + ` and ` + "`Version`" + ` headers.

## Things you can try:
- Check that the download finished; a truncated file is not a valid zip
- Inspect the archive:
~~~
$ wheelpack inspect path/to/package.whl
~~~
- Move stray ` + "`.whl`" + ` files that are not wheels out of the search directory`,
		extLinks: []HttpLink{"https://packaging.python.org/en/latest/specifications/binary-distribution-format/"},
	}

	wheelNotFoundIssue = &Issue{
		id: WheelNotFoundId,
		mdMsg: `
# Wheel not found

The root wheel or the search directory does not exist.

## Things you can try:
- Pass the path of an existing ` + "`.whl`" + ` file
- Point ` + "`--dir`" + ` at the directory holding the downloaded dependencies`,
	}

	unresolvedDependenciesIssue = &Issue{
		id: UnresolvedDependenciesId,
		mdMsg: `
# Some dependencies are still missing

No installed package and no local wheel provides them. Nothing was written.

## Things you can try:
- Download each listed package from the printed link into the search directory
- Run the same command again; repeat until nothing is missing`,
		extLinks: []HttpLink{"https://pypi.org/"},
	}

	unresolvableOrderIssue = &Issue{
		id: UnresolvableOrderId,
		mdMsg: `
# No install order exists

Every dependency was found, but the packages cannot be installed one after
another because some of them require each other.

## Things you can try:
- Look at the reported cycle and check whether one of the wheels is the wrong version
- Install the packages of the cycle together by hand:
~~~
$ pip install a.whl b.whl
~~~`,
	}

	inventoryFailedIssue = &Issue{
		id: InventoryFailedId,
		mdMsg: `
# Could not list installed packages

wheelpack asks the target interpreter which packages are installed.

## Things you can try:
- Check that the interpreter runs and has pip:
~~~
$ python3 -m pip --version
~~~
- Choose another interpreter with ` + "`--python`" + `
- Read a site-packages directory instead with ` + "`--site-packages`" + `
- Skip the check with ` + "`--no-installed`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file is not valid CUE or does not match the schema.

## Things you can try:
- Show the configuration wheelpack would use:
~~~
$ wheelpack config show
~~~
- Compare your file with the example:
~~~cue
require_virtualenv: true
search_dir:         "./wheels"
script_format:      "sh"
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	scriptWriteFailedIssue = &Issue{
		id: ScriptWriteFailedId,
		mdMsg: `
# Could not write the installer script

## Things you can try:
- Check that the output directory exists and is writable
- Choose another directory with ` + "`--out`",
	}

	catalog = []*Issue{
		invalidPackageArchiveIssue,
		wheelNotFoundIssue,
		unresolvedDependenciesIssue,
		unresolvableOrderIssue,
		inventoryFailedIssue,
		configLoadFailedIssue,
		scriptWriteFailedIssue,
	}
)

// Values returns every catalog page in Id order.
func Values() []*Issue {
	return slices.Clone(catalog)
}

// Get returns the page for id, or nil.
func Get(id Id) *Issue {
	idx := slices.IndexFunc(catalog, func(i *Issue) bool { return i.id == id })
	if idx < 0 {
		return nil
	}
	return catalog[idx]
}
