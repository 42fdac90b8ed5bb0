package github

import "context"

// Client defines the GitHub operations the merge workflow needs.
type Client interface {
	// GetPullRequest fetches a read-only snapshot of the pull request.
	GetPullRequest(ctx context.Context, ref PullRequestRef) (*PullRequest, error)

	// CreateComment posts a comment on the pull request's issue endpoint.
	CreateComment(ctx context.Context, ref PullRequestRef, body string) error

	// ClosePullRequest patches the pull request state to closed.
	ClosePullRequest(ctx context.Context, ref PullRequestRef) error

	// CurrentUser returns the login of the authenticated user.
	CurrentUser(ctx context.Context) (string, error)
}

// Compile-time check that the implementation satisfies the Client interface.
var _ Client = (*APIClient)(nil)
