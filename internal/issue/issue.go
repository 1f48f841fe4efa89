// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	SourceDirNotFoundId Id = iota + 1
	DescriptorNotFoundId
	InvalidVersionCodeId
	OutputInsideSourceId
	ConfigLoadFailedId
	PermissionDeniedId
	NoArchiveFoundId
	ChangelogNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

// Render renders the issue as terminal Markdown using the named glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	sourceDirNotFoundIssue = &Issue{
		id: SourceDirNotFoundId,
		mdMsg: `
# Module directory not found!

Packaging needs the module tree that goes into the archive.

## Things you can try:
- Run modpack from the project root, next to the ` + "`module/`" + ` directory
- Point ` + "`source_dir`" + ` at the module tree in your config file:
~~~cue
source_dir: "path/to/module"
~~~`,
		extLinks: []HttpLink{"https://topjohnwu.github.io/Magisk/guides.html#magisk-modules"},
	}

	descriptorNotFoundIssue = &Issue{
		id: DescriptorNotFoundId,
		mdMsg: `
# No version found in module.prop!

The update manifest is generated from the ` + "`version=`" + ` line of the module
descriptor, and none could be read.

## Things you can try:
- Check that ` + "`module/module.prop`" + ` exists
- Add a version line:
~~~
version=v1.2.3
versionCode=10203
~~~

- Point ` + "`descriptor`" + ` at the right file in your config file`,
		extLinks: []HttpLink{"https://topjohnwu.github.io/Magisk/guides.html#moduleprop"},
	}

	invalidVersionCodeIssue = &Issue{
		id: InvalidVersionCodeId,
		mdMsg: `
# versionCode is not an integer!

Module managers compare ` + "`versionCode`" + ` numerically, so it must be a whole number.

## Things you can try:
- Use digits only, e.g. ` + "`versionCode=10203`" + `
- Remove the line to derive a code from the descriptor's creation time`,
	}

	outputInsideSourceIssue = &Issue{
		id: OutputInsideSourceId,
		mdMsg: `
# Output directory is inside the module tree!

The archive would end up packaging itself.

## Things you can try:
- Keep the default ` + "`output/`" + ` directory next to ` + "`module/`" + `
- Change ` + "`output_dir`" + ` in your config file to a path outside ` + "`source_dir`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax of the file
- Compare it with the effective configuration:
~~~
$ modpack config show
~~~

- Remove the file to fall back to the defaults`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read the module tree or write the output.

## Things you can try:
- Check file and directory permissions
- Run modpack from a directory you own`,
	}

	noArchiveFoundIssue = &Issue{
		id: NoArchiveFoundId,
		mdMsg: `
# No archive found!

There is nothing to inspect in the output directory yet.

## Things you can try:
- Build one first:
~~~
$ modpack pack
~~~

- Pass an archive path explicitly:
~~~
$ modpack inspect output/device_faker-v1.0.zip
~~~`,
	}

	changelogNotFoundIssue = &Issue{
		id: ChangelogNotFoundId,
		mdMsg: `
# Changelog not found!

## Things you can try:
- Create ` + "`CHANGELOG.md`" + ` in the project root
- Point ` + "`changelog_file`" + ` at it in your config file`,
	}

	issues = map[Id]*Issue{
		sourceDirNotFoundIssue.Id():  sourceDirNotFoundIssue,
		descriptorNotFoundIssue.Id(): descriptorNotFoundIssue,
		invalidVersionCodeIssue.Id(): invalidVersionCodeIssue,
		outputInsideSourceIssue.Id(): outputInsideSourceIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		noArchiveFoundIssue.Id():     noArchiveFoundIssue,
		changelogNotFoundIssue.Id():  changelogNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, v := range issues {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
