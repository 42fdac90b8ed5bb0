package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mfeller.dev/land/pkg/config"
	"mfeller.dev/land/pkg/editor"
	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
	"mfeller.dev/land/pkg/github"
	"mfeller.dev/land/pkg/workflow"
)

var noSavePassword bool

func init() {
	rootCmd.Flags().BoolVar(&noSavePassword, "nosavepw", false,
		"Do not save resolved credentials back to the git credential store")
}

// runMerge executes the full merge workflow for one pull request URL.
func runMerge(rawURL string) error {
	ref, err := github.ParsePullRequestURL(rawURL)
	if err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	// Ctrl-C cancels the context; the engine's deferred restore still runs
	// because it detaches from the cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := git.NewRunner()
	repo := git.NewRepository(runner)
	store := git.NewCredentialStore(runner, cfg.GitHub.Host)
	ed := newEditor(runner, repo, cfg)

	factory := func(creds git.Credentials) github.Client {
		return github.NewAPIClient(creds, verbose, apiClientOptions(cfg)...)
	}

	engine := workflow.NewEngine(repo, store, factory, ed, cfg, verbose)

	opts := workflow.MergeOptions{
		SavePassword: cfg.Merge.SavePassword && !noSavePassword,
	}

	fmt.Printf("Landing pull request %s...\n", ref.String())

	if err := engine.Run(ctx, ref, opts); err != nil {
		switch {
		case landerrors.Is(err, context.Canceled):
			fmt.Fprintln(os.Stderr, "\nexiting on interrupt")
		case landerrors.Is(err, landerrors.ErrEmptyMessage):
			fmt.Println("Empty close message; nothing was pushed or closed.")
		default:
			fmt.Println(landerrors.FormatUserError(err))
		}
		return err
	}

	fmt.Printf("\n%s Pull request %s merged and closed.\n", checkMark(), ref.String())
	return nil
}

// newEditor builds the close-message editor. An editor.command in the config
// wins over git's core.editor; the $VISUAL/$EDITOR/vi fallbacks stay the same.
func newEditor(runner git.CommandRunner, repo *git.Repository, cfg *config.Config) editor.Editor {
	lookup := editor.LookupFunc(repo.ConfiguredEditor)
	if cfg.Editor.Command != "" {
		override := cfg.Editor.Command
		lookup = func(context.Context) (string, error) { return override, nil }
	}
	return editor.NewCommandEditor(runner, lookup, os.Getenv)
}

// apiClientOptions builds the API client options from configuration. An
// enterprise host additionally repoints the base URL.
func apiClientOptions(cfg *config.Config) []github.APIClientOption {
	opts := []github.APIClientOption{
		github.WithUserAgent("land/" + Version),
	}
	if cfg.GitHub.Host != "" && cfg.GitHub.Host != github.DefaultHost {
		opts = append(opts, github.WithBaseURL("https://"+cfg.GitHub.Host+"/"))
	}
	return opts
}

// checkMark returns a check mark symbol.
func checkMark() string {
	return "\u2713" // ✓
}

// crossMark returns a cross mark symbol.
func crossMark() string {
	return "\u2717" // ✗
}
