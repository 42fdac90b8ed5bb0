package cmd

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestUpdateCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := updateCmd

	tests := []struct {
		flagName     string
		shorthand    string
		defaultValue string
	}{
		{"check", "c", "false"},
		{"force", "f", "false"},
		{"pre", "p", "false"},
		{"yes", "y", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Errorf("update command should have --%s flag", tt.flagName)
				return
			}

			if flag.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.flagName, flag.Shorthand, tt.shorthand)
			}

			if flag.DefValue != tt.defaultValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defaultValue)
			}
		})
	}
}

func TestUpdateCommandDescription(t *testing.T) {
	t.Parallel()

	cmd := updateCmd

	if cmd.Use != "update" {
		t.Errorf("update command Use = %q, want %q", cmd.Use, "update")
	}

	if cmd.Short == "" {
		t.Error("update command should have Short description")
	}

	// Verify examples are included in Long description
	expectedExamples := []string{
		"land update",
		"--check",
		"--yes",
		"--force",
		"--pre",
	}

	for _, example := range expectedExamples {
		if !strings.Contains(cmd.Long, example) {
			t.Errorf("update command Long description should contain %q", example)
		}
	}
}

func TestConfirmUpdate_StdinResponses(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"lowercase y", "y\n", true},
		{"uppercase Y", "Y\n", true},
		{"lowercase yes", "yes\n", true},
		{"mixed case Yes", "Yes\n", true},
		{"n response", "n\n", false},
		{"no response", "no\n", false},
		{"empty response", "\n", false},
		{"garbage input", "asdfasdf\n", false},
		{"y with spaces", "  y  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original stdin and restore after test
			oldStdin := os.Stdin
			defer func() { os.Stdin = oldStdin }()

			r, w, err := os.Pipe()
			if err != nil {
				t.Fatalf("failed to create pipe: %v", err)
			}
			os.Stdin = r

			go func() {
				defer w.Close()
				_, _ = io.WriteString(w, tt.input)
			}()

			// Capture stdout to suppress the prompt
			oldStdout := os.Stdout
			os.Stdout, _ = os.Create(os.DevNull)
			defer func() { os.Stdout = oldStdout }()

			result := confirmUpdate("1.0.0", "2.0.0")

			if result != tt.expected {
				t.Errorf("confirmUpdate() with input %q = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	got := GetVersion()
	want := Version

	if got != want {
		t.Errorf("GetVersion() = %q, want %q", got, want)
	}
}

func TestVersionExported(t *testing.T) {
	t.Parallel()

	if Version == "" {
		t.Error("Version should not be empty string")
	}

	// Default value should be "dev" when not set via ldflags
	if Version != "dev" {
		t.Logf("Version = %q (set via ldflags)", Version)
	}
}

func TestRepoConstants(t *testing.T) {
	t.Parallel()

	if repoOwner != "mfeller" {
		t.Errorf("repoOwner = %q, want %q", repoOwner, "mfeller")
	}

	if repoName != "land" {
		t.Errorf("repoName = %q, want %q", repoName, "land")
	}
}

func TestUpdateCommandHasRunE(t *testing.T) {
	t.Parallel()

	if updateCmd.RunE == nil {
		t.Error("update command should have RunE set for error handling")
	}
}

func TestUpdateCommandInheritsPersistentFlags(t *testing.T) {
	t.Parallel()

	if updateCmd.Flag("verbose") == nil {
		t.Error("update command should inherit --verbose persistent flag from root")
	}

	if updateCmd.Flag("config") == nil {
		t.Error("update command should inherit --config persistent flag from root")
	}
}
