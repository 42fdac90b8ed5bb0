// Package git wraps the git binary with typed operations for the merge
// workflow: working-tree probing, checkouts, fetches, rebases, fast-forward
// merges, and the credential helper protocol. Exit codes are the only
// success signal; output is parsed only for credentials and log text.
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner abstracts subprocess execution so tests can fake the git
// binary. The four methods differ only in how stdin/stdout/stderr are wired.
type CommandRunner interface {
	// Run executes a command with stdout/stderr passed through to the
	// terminal. Mutating git operations use this so the user sees git's
	// own diagnostics.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and captures trimmed stdout. Stderr is
	// folded into the returned error on failure.
	Output(ctx context.Context, name string, args ...string) (string, error)

	// RunInteractive executes a command with stdin, stdout and stderr all
	// attached to the terminal. Used for the editor.
	RunInteractive(ctx context.Context, name string, args ...string) error

	// OutputWithInput executes a command with the given stdin payload and
	// captures trimmed stdout. Used for the credential helper protocol.
	OutputWithInput(ctx context.Context, input, name string, args ...string) (string, error)
}

// RealCommandRunner executes commands via os/exec.
type RealCommandRunner struct{}

// Compile-time check that RealCommandRunner implements CommandRunner.
var _ CommandRunner = (*RealCommandRunner)(nil)

// NewRunner creates a CommandRunner backed by os/exec.
func NewRunner() *RealCommandRunner {
	return &RealCommandRunner{}
}

// Run implements CommandRunner.
func (r *RealCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output implements CommandRunner.
func (r *RealCommandRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", wrapExecError(err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

// RunInteractive implements CommandRunner.
func (r *RealCommandRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// OutputWithInput implements CommandRunner.
func (r *RealCommandRunner) OutputWithInput(ctx context.Context, input, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", wrapExecError(err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

// wrapExecError attaches captured stderr to an exec error so callers can
// surface git's own diagnostic.
func wrapExecError(err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err
	}
	return &execError{cause: err, stderr: stderr}
}

type execError struct {
	cause  error
	stderr string
}

func (e *execError) Error() string {
	return e.cause.Error() + ": " + e.stderr
}

func (e *execError) Unwrap() error {
	return e.cause
}
