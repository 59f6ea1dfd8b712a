// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	DocumentNotFoundId
	DocumentParseErrorId
	ConfigShapeId
	DuplicateKeyId
	CommandConflictId
	CommandNotFoundId
	AmbiguousGroupId
	UnknownEnvId
	UnexpectedArgsId
	InvalidRuntimeModeId
	ShellNotFoundId
	PermissionDeniedId
	CommandFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	var extra strings.Builder
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extra.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			extra.WriteString("- [" + string(link) + "](" + string(link) + ")\n")
		}
		for _, link := range i.extLinks {
			extra.WriteString("- [" + string(link) + "](" + string(link) + ")\n")
		}
	}
	return render(string(i.mdMsg)+extra.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The global configuration file could not be read.

## Things you can try:
- Check the CUE syntax of your config file
- Allowed fields are ds_files, on_conflict, runtime and ui
- Write a fresh default configuration:
~~~
$ ds --init-config
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# No command document found!

ds looked for a command document and found none.

## Search locations (in order of precedence):
1. Current directory
2. Git repository root
3. Files matched by ds_files in your config
4. The config directory

## Things you can try:
- Create a ds.yaml in your project:
~~~yaml
commands:
  build: go build ./...
~~~`,
	}

	documentParseErrorIssue = &Issue{
		id: DocumentParseErrorId,
		mdMsg: `
# Failed to parse a command document!

One of the discovered files is not valid JSON, CUE, YAML or TOML.

## Things you can try:
- Check the syntax of the file named above
- Make sure the file extension matches its contents`,
	}

	configShapeIssue = &Issue{
		id: ConfigShapeId,
		mdMsg: `
# Config shape error!

A command entry is neither a string, a group with 'commands', nor a
leaf with 'command'.

## Things you can try:
- Use a plain string for simple commands:
~~~yaml
build: go build ./...
~~~
- Use 'command' for a leaf with settings and 'commands' for a group
- Never declare both 'command' and 'commands' on one entry`,
	}

	duplicateKeyIssue = &Issue{
		id: DuplicateKeyId,
		mdMsg: `
# Duplicate key!

Two entries of the same group answer to the same name.

## Things you can try:
- Rename one of the entries or drop the clashing alias
- Check flattened groups: their children share the parent namespace`,
	}

	commandConflictIssue = &Issue{
		id: CommandConflictId,
		mdMsg: `
# Command conflict!

Two command documents define the same command and the conflict policy
is set to 'error'.

## Things you can try:
- Remove the command from one of the documents
- Allow later documents to override earlier ones:
~~~cue
on_conflict: "override"
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found!

No key or alias matches the name you typed.

## Things you can try:
- List the available commands:
~~~
$ ds --list
~~~
- Check the 'root.scope' of the document: it may be hidden in this directory
- Names are case-sensitive`,
	}

	ambiguousGroupIssue = &Issue{
		id: AmbiguousGroupId,
		mdMsg: `
# Ambiguous group!

You named a group that has no default command.

## Things you can try:
- Add one of the listed children to your invocation
- Set a default on the group:
~~~yaml
default: build
~~~`,
	}

	unknownEnvIssue = &Issue{
		id: UnknownEnvId,
		mdMsg: `
# Unknown environment!

The environment you asked for is not declared for this command.

## Things you can try:
- Pick one of the listed environments
- Pass arguments for the command itself after '--':
~~~
$ ds build -- --verbose
~~~`,
	}

	unexpectedArgsIssue = &Issue{
		id: UnexpectedArgsId,
		mdMsg: `
# Unexpected arguments!

Only one environment name may follow a command.

## Things you can try:
- Pass arguments for the command itself after '--':
~~~
$ ds test prod -- -run TestFoo
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

The runtime must be 'native' or 'virtual'.

## Things you can try:
- Fix the 'runtime' field of your config file
- Pass '--runtime native' or '--runtime virtual'`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

The native runtime needs a POSIX 'sh' in your PATH.

## Things you can try:
- Install a POSIX shell or fix your PATH
- Use the built-in shell instead:
~~~cue
runtime: "virtual"
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Things you can try:
- Check the permissions of the working directory
- Check that the program your command runs is executable`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# Command failed!

The command ran and exited with a non-zero status.

## Things you can try:
- Look at the output above for the cause
- Print the command line without running it:
~~~
$ ds --dry-run <command>
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		documentNotFoundIssue.Id():   documentNotFoundIssue,
		documentParseErrorIssue.Id(): documentParseErrorIssue,
		configShapeIssue.Id():        configShapeIssue,
		duplicateKeyIssue.Id():       duplicateKeyIssue,
		commandConflictIssue.Id():    commandConflictIssue,
		commandNotFoundIssue.Id():    commandNotFoundIssue,
		ambiguousGroupIssue.Id():     ambiguousGroupIssue,
		unknownEnvIssue.Id():         unknownEnvIssue,
		unexpectedArgsIssue.Id():     unexpectedArgsIssue,
		invalidRuntimeModeIssue.Id(): invalidRuntimeModeIssue,
		shellNotFoundIssue.Id():      shellNotFoundIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		commandFailedIssue.Id():      commandFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
