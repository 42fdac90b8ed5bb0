package cmd

import (
	"context"
	"testing"

	"mfeller.dev/land/pkg/config"
	"mfeller.dev/land/pkg/editor"
	"mfeller.dev/land/pkg/git"
)

func TestAPIClientOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		host     string
		wantOpts int
	}{
		{"default host sets only the user agent", "api.github.com", 1},
		{"empty host sets only the user agent", "", 1},
		{"enterprise host additionally repoints the base URL", "github.example.com", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{GitHub: config.GitHubConfig{Host: tt.host}}
			opts := apiClientOptions(cfg)
			if len(opts) != tt.wantOpts {
				t.Errorf("apiClientOptions() returned %d options, want %d", len(opts), tt.wantOpts)
			}
		})
	}
}

func TestNewEditorConfigOverride(t *testing.T) {
	t.Parallel()

	runner := &git.MockCommandRunner{
		OutputFunc: func(_ context.Context, _ string, _ ...string) (string, error) {
			return "nano", nil // git core.editor
		},
	}
	repo := git.NewRepository(runner)

	cfg := &config.Config{Editor: config.EditorConfig{Command: "code --wait"}}
	ed := newEditor(runner, repo, cfg)

	ce, ok := ed.(*editor.CommandEditor)
	if !ok {
		t.Fatalf("newEditor() = %T, want *editor.CommandEditor", ed)
	}

	// The config override wins over git's core.editor.
	if got := ce.Resolve(context.Background()); got != "code --wait" {
		t.Errorf("Resolve() = %q, want config override %q", got, "code --wait")
	}
}

func TestNewEditorFallsBackToGit(t *testing.T) {
	t.Parallel()

	runner := &git.MockCommandRunner{
		OutputFunc: func(_ context.Context, _ string, _ ...string) (string, error) {
			return "nano", nil
		},
	}
	repo := git.NewRepository(runner)

	cfg := &config.Config{}
	ed := newEditor(runner, repo, cfg)

	ce, ok := ed.(*editor.CommandEditor)
	if !ok {
		t.Fatalf("newEditor() = %T, want *editor.CommandEditor", ed)
	}

	if got := ce.Resolve(context.Background()); got != "nano" {
		t.Errorf("Resolve() = %q, want git's core.editor %q", got, "nano")
	}
}
