// Package workflow implements the merge orchestration: resolve credentials,
// inspect the pull request, rebase and fast-forward it into its base branch
// locally, solicit a close message, then push and close the PR upstream.
package workflow

import (
	"time"

	"mfeller.dev/land/pkg/git"
	"mfeller.dev/land/pkg/github"
)

// Step identifies a phase of the merge workflow.
type Step string

const (
	// StepCredentials resolves and optionally persists credentials.
	StepCredentials Step = "credentials"
	// StepInspect fetches the PR snapshot and checks mergeability.
	StepInspect Step = "inspect"
	// StepIntegrate performs the local git sequence: base checkout, merge
	// branch, fast-forward pull, rebase, fast-forward merge, branch delete.
	StepIntegrate Step = "integrate"
	// StepCompose solicits the close message via the user's editor.
	StepCompose Step = "compose"
	// StepPublish pushes the base ref, comments on, and closes the PR.
	StepPublish Step = "publish"
)

// MergeOptions controls workflow behavior.
type MergeOptions struct {
	// SavePassword persists the resolved credentials back to the git
	// credential store. Disabled by --nosavepw.
	SavePassword bool
}

// MergeRun is the transient state of one workflow execution. Nothing here
// is persisted; the run either completes or leaves state for the operator.
type MergeRun struct {
	Ref          github.PullRequestRef
	Credentials  git.Credentials
	PR           *github.PullRequest
	OriginalHead string
	Branch       string // temporary merge branch, deleted before publish
	Message      string
	RunID        string
	StartedAt    time.Time
}

// MergeBranchName names the temporary local branch for a pull request:
// merge-pr-<head author login>-<head ref>.
func MergeBranchName(pr *github.PullRequest) string {
	return "merge-pr-" + pr.Head.Login + "-" + pr.Head.Ref
}
