// SPDX-License-Identifier: MIT

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	RegistryNotFoundId Id = iota + 1
	RegistryParseErrorId
	UndeclaredCommandId
	AliasCycleId
	ProviderConflictId
	UnknownFamilyId
	ProfileLoadFailedId
	ConfigLoadFailedId
	OutputWriteFailedId
	EnumOffsetOverflowId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	registryNotFoundIssue = &Issue{
		id: RegistryNotFoundId,
		mdMsg: `
# Registry file not found!

We could not open the registry XML you asked us to generate dispatch code from.

## Things you can try:
- Check the path you passed on the command line:
~~~
$ epoxygen generate registry/gl.xml
~~~

- Fetch the Khronos registry files if you don't have them yet:
  - https://github.com/KhronosGroup/OpenGL-Registry (gl.xml, glx.xml, wgl.xml)
  - https://github.com/KhronosGroup/EGL-Registry (egl.xml)`,
		extLinks: []HttpLink{
			"https://github.com/KhronosGroup/OpenGL-Registry",
			"https://github.com/KhronosGroup/EGL-Registry",
		},
	}

	registryParseErrorIssue = &Issue{
		id: RegistryParseErrorId,
		mdMsg: `
# Failed to parse the registry!

The registry XML is malformed or does not follow the Khronos schema.

## Common issues:
- Truncated or hand-edited XML
- A <feature> element whose number attribute is not MAJOR.MINOR
- A <command> missing its <proto><name> element

## Things you can try:
- Check the error message above for the offending element
- Re-download a pristine copy of the registry
- Validate the file against registry.rnc from the Khronos repository`,
	}

	undeclaredCommandIssue = &Issue{
		id: UndeclaredCommandId,
		mdMsg: `
# Feature requires an undeclared command!

A <feature> or <extension> block requires a command that the registry
never declares. Generated dispatch tables would reference a symbol with
no prototype, so generation stops here.

## Things you can try:
- Check the block named in the error message
- Make sure you are not mixing <require> edits from different registry
  revisions
- Re-download a pristine copy of the registry`,
	}

	aliasCycleIssue = &Issue{
		id: AliasCycleId,
		mdMsg: `
# Alias cycle detected!

The registry's alias declarations form a loop, so no command in the chain
has a root to resolve to.

## Example of a cycle:
~~~xml
<command><proto>void <name>glFoo</name></proto><alias name="glBar"/></command>
<command><proto>void <name>glBar</name></proto><alias name="glFoo"/></command>
~~~

## Things you can try:
- Review the alias chain printed in the error message
- Fix or remove the offending <alias> element`,
	}

	providerConflictIssue = &Issue{
		id: ProviderConflictId,
		mdMsg: `
# Conflicting provider definitions!

The same provider label was produced twice with different availability
conditions or loader expressions. Every provider label must map to exactly
one (condition, loader) pair, otherwise the emitted provider table would
be ambiguous.

## Things you can try:
- Check the profile rules for the label named in the error message
- Make sure two feature rules for one family don't overlap in version
  range with different templates`,
	}

	unknownFamilyIssue = &Issue{
		id: UnknownFamilyId,
		mdMsg: `
# Unknown API family!

A profile rule or registry feature names an API family we don't know.

## Known families:
- **gl**, **gles1**, **gles2**, **glsc2** (from gl.xml)
- **glx** (from glx.xml)
- **egl** (from egl.xml)
- **wgl** (from wgl.xml)

## Things you can try:
- Fix the family name in your profile file
- If the Khronos registry grew a new API, add a feature rule for it`,
	}

	profileLoadFailedIssue = &Issue{
		id: ProfileLoadFailedId,
		mdMsg: `
# Failed to load the provider profile!

Your profile override file contains syntax errors or invalid rules.

## Things you can try:
- Check the error message above for the specific line/column
- Validate your CUE syntax using the cue command-line tool

## Example of a valid feature rule:
~~~cue
features: [
  {
    family: "gl"
    min_version: 11
    label: "Desktop OpenGL {number}"
    condition: "epoxy_conservative_gl_version() >= {version}"
    loader: "epoxy_get_core_proc_address({0}, {version})"
  },
]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the epoxygen configuration file.

## Configuration file locations:
- Linux: ~/.config/epoxygen/config.cue
- macOS: ~/Library/Application Support/epoxygen/config.cue
- Windows: %APPDATA%\epoxygen\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ epoxygen config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
outputdir: "out"
includedir: "include/epoxy"
srcdir: "src"

emit: {
  header: true
  source: true
  vapi: false
}
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write generated output!

We generated the dispatch code but could not write it to disk.

## Common causes:
- The output directory does not exist
- No write permission on the output directory
- Disk full

## Things you can try:
- Create the directory first, or pass one that exists:
~~~
$ epoxygen generate --outputdir out registry/gl.xml
~~~

- Check directory permissions`,
	}

	enumOffsetOverflowIssue = &Issue{
		id: EnumOffsetOverflowId,
		mdMsg: `
# Enum string table overflow!

The concatenated provider name table grew past what a 16-bit offset can
address. The generated dispatch tables index provider names with uint16_t
offsets, so the table must stay under 65536 bytes.

## Things you can try:
- Generate per-API targets instead of one combined target
- Report the registry that triggered this so the offset type can grow`,
	}

	issues = map[Id]*Issue{
		registryNotFoundIssue.Id():   registryNotFoundIssue,
		registryParseErrorIssue.Id(): registryParseErrorIssue,
		undeclaredCommandIssue.Id():  undeclaredCommandIssue,
		aliasCycleIssue.Id():         aliasCycleIssue,
		providerConflictIssue.Id():   providerConflictIssue,
		unknownFamilyIssue.Id():      unknownFamilyIssue,
		profileLoadFailedIssue.Id():  profileLoadFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		outputWriteFailedIssue.Id():  outputWriteFailedIssue,
		enumOffsetOverflowIssue.Id(): enumOffsetOverflowIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
