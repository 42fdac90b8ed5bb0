package workflow

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"mfeller.dev/land/pkg/config"
	"mfeller.dev/land/pkg/editor"
	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
	"mfeller.dev/land/pkg/github"
)

// ClientFactory builds a GitHub client from resolved credentials. The
// client cannot exist before the credentials step has run.
type ClientFactory func(creds git.Credentials) github.Client

// Engine orchestrates the merge workflow.
type Engine struct {
	repo      *git.Repository
	creds     *git.CredentialStore
	newClient ClientFactory
	editor    editor.Editor
	cfg       *config.Config
	verbose   bool
	logger    *slog.Logger

	// client is built by the credentials step and used by inspect/publish.
	client github.Client
}

// NewEngine creates a workflow engine.
//
// Parameters:
//   - repo: git operations for the current working tree (required)
//   - creds: credential store for the configured host (required)
//   - newClient: GitHub client factory, called once credentials resolve (required)
//   - ed: editor for the close message (required)
//   - cfg: configuration (required)
//   - verbose: enable debug logging
func NewEngine(repo *git.Repository, creds *git.CredentialStore, newClient ClientFactory, ed editor.Editor, cfg *config.Config, verbose bool) *Engine {
	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return &Engine{
		repo:      repo,
		creds:     creds,
		newClient: newClient,
		editor:    ed,
		cfg:       cfg,
		verbose:   verbose,
		logger:    logger,
	}
}

// Run executes the full merge workflow for one pull request.
//
// The workflow proceeds through five steps:
//  1. Credentials - fill, token swap, optional approve
//  2. Inspect     - fetch the PR snapshot, abort unless mergeable
//  3. Integrate   - local rebase + fast-forward merge into the base ref
//  4. Compose     - editor-authored close message (empty message cancels)
//  5. Publish     - push, comment on the PR, close it
//
// The first failing step aborts the remainder. Nothing is retried; the only
// resend lives inside the API client's two-factor handshake. The original
// checked-out branch is restored on every exit path, including interrupts.
func (e *Engine) Run(ctx context.Context, ref github.PullRequestRef, opts MergeOptions) error {
	run := &MergeRun{
		Ref:       ref,
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	logger := e.logger.With("run", run.RunID)

	// Preconditions before any mutation: must be inside a working tree.
	if err := e.repo.ProbeWorkingTree(ctx); err != nil {
		return err
	}

	head, err := e.repo.CurrentHead(ctx)
	if err != nil {
		return err
	}
	run.OriginalHead = head
	logger.Debug("captured original head", "head", head)

	// Registered once, early, unconditionally: the user is returned to
	// their starting point on success, failure, and interrupt alike. The
	// detached context lets the checkout run after a cancellation.
	defer func() {
		restoreCtx := context.WithoutCancel(ctx)
		if restoreErr := e.repo.Restore(restoreCtx, run.OriginalHead); restoreErr != nil {
			logger.Warn("failed to restore original head", "head", run.OriginalHead, "error", restoreErr)
		}
	}()

	steps := []struct {
		step Step
		fn   func(context.Context, *MergeRun, MergeOptions) error
	}{
		{StepCredentials, e.runCredentials},
		{StepInspect, e.runInspect},
		{StepIntegrate, e.runIntegrate},
		{StepCompose, e.runCompose},
		{StepPublish, e.runPublish},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Debug("executing step", "step", s.step)
		if err := s.fn(ctx, run, opts); err != nil {
			return landerrors.NewWorkflowErrorWithCause(string(s.step), err.Error(), err)
		}
		logger.Debug("completed step", "step", s.step)
	}

	logger.Debug("merge workflow completed", "ref", ref.String(), "duration", time.Since(run.StartedAt))
	return nil
}
