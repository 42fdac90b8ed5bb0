package git

import (
	"context"
	"strings"
)

// Call records a single command execution observed by MockCommandRunner.
type Call struct {
	Method string // "Run", "Output", "RunInteractive", "OutputWithInput"
	Name   string
	Args   []string
	Input  string // stdin payload for OutputWithInput
}

// String renders the call as the command line it would have executed.
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// MockCommandRunner is a CommandRunner for tests. Each method delegates to
// the corresponding func field when set and records every call.
type MockCommandRunner struct {
	RunFunc             func(ctx context.Context, name string, args ...string) error
	OutputFunc          func(ctx context.Context, name string, args ...string) (string, error)
	RunInteractiveFunc  func(ctx context.Context, name string, args ...string) error
	OutputWithInputFunc func(ctx context.Context, input, name string, args ...string) (string, error)

	Calls []Call
}

// Compile-time check that MockCommandRunner implements CommandRunner.
var _ CommandRunner = (*MockCommandRunner)(nil)

// Run implements CommandRunner.
func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	m.Calls = append(m.Calls, Call{Method: "Run", Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return nil
}

// Output implements CommandRunner.
func (m *MockCommandRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, Call{Method: "Output", Name: name, Args: args})
	if m.OutputFunc != nil {
		return m.OutputFunc(ctx, name, args...)
	}
	return "", nil
}

// RunInteractive implements CommandRunner.
func (m *MockCommandRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	m.Calls = append(m.Calls, Call{Method: "RunInteractive", Name: name, Args: args})
	if m.RunInteractiveFunc != nil {
		return m.RunInteractiveFunc(ctx, name, args...)
	}
	return nil
}

// OutputWithInput implements CommandRunner.
func (m *MockCommandRunner) OutputWithInput(ctx context.Context, input, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, Call{Method: "OutputWithInput", Name: name, Args: args, Input: input})
	if m.OutputWithInputFunc != nil {
		return m.OutputWithInputFunc(ctx, input, name, args...)
	}
	return "", nil
}

// CommandLines returns every recorded call rendered as a command line.
// Convenient for asserting on the exact git sequence in tests.
func (m *MockCommandRunner) CommandLines() []string {
	lines := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		lines = append(lines, c.String())
	}
	return lines
}
