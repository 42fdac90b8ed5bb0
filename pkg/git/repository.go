package git

import (
	"context"

	landerrors "mfeller.dev/land/pkg/errors"
)

// Repository exposes the git operations the merge workflow needs, one
// method per invocation. Every method shells out through the injected
// CommandRunner; exit codes are the sole success signal.
type Repository struct {
	runner CommandRunner
}

// NewRepository creates a Repository backed by the given runner.
func NewRepository(runner CommandRunner) *Repository {
	return &Repository{runner: runner}
}

// ProbeWorkingTree verifies the current directory is inside a git working
// tree via a no-op status probe. Git's own diagnostic is passed through.
func (r *Repository) ProbeWorkingTree(ctx context.Context) error {
	if err := r.runner.Run(ctx, "git", "status", "--porcelain"); err != nil {
		return landerrors.NewGitErrorWithCause("status", "", err)
	}
	return nil
}

// CurrentHead returns the checked-out branch name, or the commit id when
// HEAD is detached.
func (r *Repository) CurrentHead(ctx context.Context) (string, error) {
	branch, err := r.runner.Output(ctx, "git", "symbolic-ref", "--short", "-q", "HEAD")
	if err == nil && branch != "" {
		return branch, nil
	}

	// Detached HEAD: fall back to the commit id.
	sha, err := r.runner.Output(ctx, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", landerrors.NewGitErrorWithCause("rev-parse", err.Error(), err)
	}
	return sha, nil
}

// Checkout checks out a ref or commit.
func (r *Repository) Checkout(ctx context.Context, ref string) error {
	if err := r.runner.Run(ctx, "git", "checkout", ref); err != nil {
		return landerrors.NewGitErrorWithCause("checkout", "", err)
	}
	return nil
}

// CheckoutNewBranch creates and checks out a new branch.
func (r *Repository) CheckoutNewBranch(ctx context.Context, name string) error {
	if err := r.runner.Run(ctx, "git", "checkout", "-b", name); err != nil {
		return landerrors.NewGitErrorWithCause("checkout", "", err)
	}
	return nil
}

// Fetch fetches a ref from a remote URL.
func (r *Repository) Fetch(ctx context.Context, remote, ref string) error {
	if err := r.runner.Run(ctx, "git", "fetch", remote, ref); err != nil {
		return landerrors.NewGitErrorWithCause("fetch", "", err)
	}
	return nil
}

// PullFastForward pulls a ref from a remote URL, fast-forward only. A
// non-fast-forward head means divergent history and fails the pull.
func (r *Repository) PullFastForward(ctx context.Context, remote, ref string) error {
	if err := r.runner.Run(ctx, "git", "pull", "--ff-only", remote, ref); err != nil {
		return landerrors.NewGitErrorWithCause("pull", "", err)
	}
	return nil
}

// Rebase rebases the current branch onto the given ref.
func (r *Repository) Rebase(ctx context.Context, onto string) error {
	if err := r.runner.Run(ctx, "git", "rebase", onto); err != nil {
		return landerrors.NewGitErrorWithCause("rebase", "", err)
	}
	return nil
}

// MergeFastForward merges a branch into the current branch, fast-forward
// only. This is what enforces "rebase succeeded cleanly" before the merge.
func (r *Repository) MergeFastForward(ctx context.Context, branch string) error {
	if err := r.runner.Run(ctx, "git", "merge", "--ff-only", branch); err != nil {
		return landerrors.NewGitErrorWithCause("merge", "", err)
	}
	return nil
}

// DeleteBranch deletes a local branch.
func (r *Repository) DeleteBranch(ctx context.Context, name string) error {
	if err := r.runner.Run(ctx, "git", "branch", "-d", name); err != nil {
		return landerrors.NewGitErrorWithCause("branch", "", err)
	}
	return nil
}

// Push pushes the current branch to its upstream.
func (r *Repository) Push(ctx context.Context) error {
	if err := r.runner.Run(ctx, "git", "push"); err != nil {
		return landerrors.NewGitErrorWithCause("push", "", err)
	}
	return nil
}

// ConfiguredEditor returns the editor configured via core.editor, if any.
// The command's standard output is the editor; a lookup failure or empty
// value just means nothing is configured.
func (r *Repository) ConfiguredEditor(ctx context.Context) (string, error) {
	return r.runner.Output(ctx, "git", "config", "core.editor")
}

// UpstreamRef resolves the upstream tracking ref of the given ref, e.g.
// "origin/main" for "main".
func (r *Repository) UpstreamRef(ctx context.Context, ref string) (string, error) {
	out, err := r.runner.Output(ctx, "git", "rev-parse", "--abbrev-ref", ref+"@{upstream}")
	if err != nil {
		return "", landerrors.NewGitErrorWithCause("rev-parse", err.Error(), err)
	}
	return out, nil
}

// UnpushedLog returns a one-line-per-commit log of commits on ref that are
// absent from upstream.
func (r *Repository) UnpushedLog(ctx context.Context, upstream, ref string) (string, error) {
	out, err := r.runner.Output(ctx, "git", "log", "--pretty=format:%h %s", upstream+".."+ref)
	if err != nil {
		return "", landerrors.NewGitErrorWithCause("log", err.Error(), err)
	}
	return out, nil
}

// Restore checks out the given head unless it is already checked out. The
// comparison keeps runs that never moved HEAD free of git mutations.
func (r *Repository) Restore(ctx context.Context, head string) error {
	current, err := r.CurrentHead(ctx)
	if err == nil && current == head {
		return nil
	}
	return r.Checkout(ctx, head)
}
