package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPreParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantConfig  string
		wantVerbose bool
	}{
		{
			name: "no flags",
			args: []string{"land", "https://github.com/acme/widgets/pull/42"},
		},
		{
			name:        "verbose long",
			args:        []string{"land", "--verbose", "https://github.com/acme/widgets/pull/42"},
			wantVerbose: true,
		},
		{
			name:        "verbose short",
			args:        []string{"land", "-v"},
			wantVerbose: true,
		},
		{
			name:       "config with separate value",
			args:       []string{"land", "--config", "/tmp/land.toml"},
			wantConfig: "/tmp/land.toml",
		},
		{
			name:       "config with equals",
			args:       []string{"land", "--config=/tmp/land.toml"},
			wantConfig: "/tmp/land.toml",
		},
		{
			name:       "short config attached",
			args:       []string{"land", "-C/tmp/land.toml"},
			wantConfig: "/tmp/land.toml",
		},
		{
			name:        "both flags",
			args:        []string{"land", "-v", "-C", "/tmp/land.toml", "https://github.com/acme/widgets/pull/42"},
			wantConfig:  "/tmp/land.toml",
			wantVerbose: true,
		},
		{
			name: "stops at first positional argument",
			args: []string{"land", "https://github.com/acme/widgets/pull/42", "--verbose"},
		},
		{
			name: "stops at end-of-options marker",
			args: []string{"land", "--", "--verbose"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile, verbose := PreParseGlobalFlags(tt.args)
			if cfgFile != tt.wantConfig {
				t.Errorf("config = %q, want %q", cfgFile, tt.wantConfig)
			}
			if verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", verbose, tt.wantVerbose)
			}
		})
	}
}

func TestInitConfig_WithFile(t *testing.T) {
	t.Setenv("GO_TEST", "true")
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[github]\nhost = \"github.example.com\"\n\n[merge]\nsave_password = false\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := InitConfig(cfgPath, false)
	if err != nil {
		t.Fatalf("InitConfig() error: %v", err)
	}

	if cfg.GitHub.Host != "github.example.com" {
		t.Errorf("github.host = %q, want %q", cfg.GitHub.Host, "github.example.com")
	}
	if cfg.Merge.SavePassword {
		t.Error("merge.save_password should be false")
	}
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Setenv("GO_TEST", "true")
	t.Setenv("LAND_GITHUB_HOST", "api.internal.example.com")
	Reset()
	t.Cleanup(Reset)

	cfg, _, err := InitConfig("", false)
	if err != nil {
		t.Fatalf("InitConfig() error: %v", err)
	}

	if cfg.GitHub.Host != "api.internal.example.com" {
		t.Errorf("github.host = %q, want env override", cfg.GitHub.Host)
	}
}

func TestFindGitRoot_OutsideRepo(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	root, err := FindGitRoot()
	if err != nil {
		t.Fatalf("FindGitRoot() error: %v", err)
	}
	if root != "" {
		t.Errorf("FindGitRoot() = %q, want empty outside a repository", root)
	}
}

func TestFindGitRoot_InsideRepo(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	root, err := FindGitRoot()
	if err != nil {
		t.Fatalf("FindGitRoot() error: %v", err)
	}
	// Resolve symlinks: t.TempDir may live under a symlinked path on macOS.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("FindGitRoot() = %q, want %q", got, want)
	}
}
