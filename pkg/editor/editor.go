// Package editor resolves and launches the user's text editor for the
// close-message file.
package editor

import (
	"context"

	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
)

// DefaultEditor is the terminal editor used when nothing else is configured.
const DefaultEditor = "vi"

// Editor opens a file for interactive editing and blocks until the user's
// editor exits.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// LookupFunc returns the version-control tool's configured editor. An error
// or empty result just means nothing is configured.
type LookupFunc func(ctx context.Context) (string, error)

// CommandEditor resolves the editor command as git does: the configured
// core.editor first, then $VISUAL, then $EDITOR, then vi. The resolved
// command runs through the shell so multi-word values work.
type CommandEditor struct {
	runner git.CommandRunner
	lookup LookupFunc
	getenv func(string) string
}

// Compile-time check that CommandEditor implements Editor.
var _ Editor = (*CommandEditor)(nil)

// NewCommandEditor creates a CommandEditor. lookup is typically
// (*git.Repository).ConfiguredEditor; getenv is os.Getenv outside of tests.
func NewCommandEditor(runner git.CommandRunner, lookup LookupFunc, getenv func(string) string) *CommandEditor {
	return &CommandEditor{runner: runner, lookup: lookup, getenv: getenv}
}

// Resolve returns the editor command to run.
func (e *CommandEditor) Resolve(ctx context.Context) string {
	if e.lookup != nil {
		if configured, err := e.lookup(ctx); err == nil && configured != "" {
			return configured
		}
	}
	if visual := e.getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := e.getenv("EDITOR"); editor != "" {
		return editor
	}
	return DefaultEditor
}

// Edit launches the resolved editor on path, attached to the terminal, and
// blocks until it exits. There is no timeout: an editor left open stalls
// the run until the user finishes or interrupts.
func (e *CommandEditor) Edit(ctx context.Context, path string) error {
	command := e.Resolve(ctx)
	if err := e.runner.RunInteractive(ctx, "sh", "-c", command+` "$1"`, "land-editor", path); err != nil {
		return landerrors.Wrapf(err, "editor %q failed", command)
	}
	return nil
}
