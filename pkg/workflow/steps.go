package workflow

import (
	"context"
	"os"

	landerrors "mfeller.dev/land/pkg/errors"
)

// runCredentials resolves credentials from the git credential store,
// applies the token/username swap, persists them back unless suppressed,
// and builds the API client.
func (e *Engine) runCredentials(ctx context.Context, run *MergeRun, opts MergeOptions) error {
	creds, err := e.creds.Fill(ctx)
	if err != nil {
		return err
	}

	run.Credentials = creds.NormalizeToken()

	if opts.SavePassword {
		// An approve failure aborts the run; it is not downgraded.
		if err := e.creds.Approve(ctx, run.Credentials); err != nil {
			return err
		}
	}

	e.client = e.newClient(run.Credentials)
	return nil
}

// runInspect fetches the pull request snapshot. A PR the API does not
// report as mergeable aborts the run before any git mutation.
func (e *Engine) runInspect(ctx context.Context, run *MergeRun, _ MergeOptions) error {
	pr, err := e.client.GetPullRequest(ctx, run.Ref)
	if err != nil {
		return err
	}

	if !pr.Mergeable {
		return landerrors.Newf("pull request %s is not mergeable; resolve conflicts upstream first", run.Ref)
	}

	run.PR = pr
	run.Branch = MergeBranchName(pr)
	return nil
}

// runIntegrate performs the local git sequence. A failure mid-sequence may
// leave the temporary branch and partially-moved state behind for manual
// resolution; only the original checkout is restored automatically.
func (e *Engine) runIntegrate(ctx context.Context, run *MergeRun, _ MergeOptions) error {
	pr := run.PR

	// Check out the base commit; if it is not available locally, fetch it
	// from the base repository and retry the checkout once.
	if err := e.repo.Checkout(ctx, pr.Base.SHA); err != nil {
		if err := e.repo.Fetch(ctx, pr.Base.CloneURL, pr.Base.Ref); err != nil {
			return err
		}
		if err := e.repo.Checkout(ctx, pr.Base.SHA); err != nil {
			return err
		}
	}

	if err := e.repo.CheckoutNewBranch(ctx, run.Branch); err != nil {
		return err
	}

	// Fast-forward only: the fetched head must be a direct descendant, so
	// divergent history fails here instead of merging silently.
	if err := e.repo.PullFastForward(ctx, pr.Head.CloneURL, pr.Head.Ref); err != nil {
		return err
	}

	if err := e.repo.Rebase(ctx, pr.Base.Ref); err != nil {
		return err
	}

	if err := e.repo.Checkout(ctx, pr.Base.Ref); err != nil {
		return err
	}

	// Fast-forward only again: this is what enforces that the rebase
	// landed cleanly on top of the base ref.
	if err := e.repo.MergeFastForward(ctx, run.Branch); err != nil {
		return err
	}

	return e.repo.DeleteBranch(ctx, run.Branch)
}

// runCompose writes the templated close-message file, launches the editor
// on it, and reads the result back. An empty message after comment
// stripping is the user's cancellation: nothing is pushed or posted.
func (e *Engine) runCompose(ctx context.Context, run *MergeRun, _ MergeOptions) error {
	template := e.composeTemplate(ctx, run)

	f, err := os.CreateTemp("", "land-close-*.txt")
	if err != nil {
		return landerrors.Wrap(err, "failed to create close-message file")
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(template); err != nil {
		f.Close()
		return landerrors.Wrap(err, "failed to write close-message template")
	}
	if err := f.Close(); err != nil {
		return landerrors.Wrap(err, "failed to write close-message template")
	}

	if err := e.editor.Edit(ctx, path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return landerrors.Wrap(err, "failed to read close message")
	}

	message := StripComments(string(data))
	if message == "" {
		return landerrors.ErrEmptyMessage
	}

	run.Message = message
	return nil
}

// runPublish pushes the base ref, posts the close message as a comment on
// the PR's issue endpoint, and patches the PR state to closed.
func (e *Engine) runPublish(ctx context.Context, run *MergeRun, _ MergeOptions) error {
	if err := e.repo.Push(ctx); err != nil {
		return err
	}

	if err := e.client.CreateComment(ctx, run.Ref, run.Message); err != nil {
		return err
	}

	return e.client.ClosePullRequest(ctx, run.Ref)
}
