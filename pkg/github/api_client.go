package github

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	gh "github.com/google/go-github/v68/github"

	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
)

// otpHeader is the response header GitHub uses to signal that a one-time
// password is required, and the request header that carries the code back.
const otpHeader = "X-GitHub-OTP"

// PromptFunc solicits a one-time password from the user. Implementations
// return an empty string on end-of-input.
type PromptFunc func() (string, error)

// APIClient implements Client over the GitHub REST API with basic
// authentication. Every call is attempted once; if GitHub answers 401 or
// 404 with a one-time-password challenge, the user is prompted and the
// request is resent exactly once. Any other non-success response is fatal.
type APIClient struct {
	client    *gh.Client
	transport *gh.BasicAuthTransport
	prompt    PromptFunc
	verbose   bool
	logger    *slog.Logger
}

// APIClientOption is a functional option for configuring APIClient.
type APIClientOption func(*APIClient)

// WithAPILogger sets a custom logger for the API client.
func WithAPILogger(logger *slog.Logger) APIClientOption {
	return func(c *APIClient) {
		c.logger = logger
	}
}

// WithOTPPrompt replaces the interactive one-time-password prompt.
func WithOTPPrompt(prompt PromptFunc) APIClientOption {
	return func(c *APIClient) {
		c.prompt = prompt
	}
}

// WithBaseURL points the client at a different API base URL. Used for
// GitHub Enterprise hosts and for tests against httptest servers.
func WithBaseURL(base string) APIClientOption {
	return func(c *APIClient) {
		if u, err := url.Parse(base); err == nil {
			if !strings.HasSuffix(u.Path, "/") {
				u.Path += "/"
			}
			c.client.BaseURL = u
		}
	}
}

// WithUserAgent sets the client identification header sent on every request.
func WithUserAgent(ua string) APIClientOption {
	return func(c *APIClient) {
		c.client.UserAgent = ua
	}
}

// NewAPIClient creates a client authenticating with the given credentials.
// Callers should pass credentials that already went through NormalizeToken.
func NewAPIClient(creds git.Credentials, verbose bool, opts ...APIClientOption) *APIClient {
	transport := &gh.BasicAuthTransport{
		Username: creds.Username,
		Password: creds.Password,
	}

	client := &APIClient{
		client:    gh.NewClient(transport.Client()),
		transport: transport,
		prompt:    promptOTP,
		verbose:   verbose,
		logger:    slog.Default(),
	}
	client.client.UserAgent = "land"

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// GetPullRequest fetches a read-only snapshot of the pull request.
func (c *APIClient) GetPullRequest(ctx context.Context, ref PullRequestRef) (*PullRequest, error) {
	c.logDebug("getting pull request", "ref", ref.String())

	var pr *gh.PullRequest
	err := c.do("GetPullRequest", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		pr, resp, err = c.client.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	return pullRequestFromGitHub(pr), nil
}

// CreateComment posts a comment on the pull request's issue endpoint.
func (c *APIClient) CreateComment(ctx context.Context, ref PullRequestRef, body string) error {
	c.logDebug("creating comment", "ref", ref.String())

	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	return c.do("CreateComment", func() (*gh.Response, error) {
		_, resp, err := c.client.Issues.CreateComment(ctx, ref.Owner, ref.Repo, ref.Number, comment)
		return resp, err
	})
}

// ClosePullRequest patches the pull request state to closed.
func (c *APIClient) ClosePullRequest(ctx context.Context, ref PullRequestRef) error {
	c.logDebug("closing pull request", "ref", ref.String())

	patch := &gh.PullRequest{State: gh.Ptr("closed")}
	return c.do("ClosePullRequest", func() (*gh.Response, error) {
		_, resp, err := c.client.PullRequests.Edit(ctx, ref.Owner, ref.Repo, ref.Number, patch)
		return resp, err
	})
}

// CurrentUser returns the login of the authenticated user.
func (c *APIClient) CurrentUser(ctx context.Context) (string, error) {
	var user *gh.User
	err := c.do("CurrentUser", func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		user, resp, err = c.client.Users.Get(ctx, "")
		return resp, err
	})
	if err != nil {
		return "", err
	}
	return user.GetLogin(), nil
}

// do runs one API call with the two-factor handshake: attempt the request
// as-is; on a 401/404 carrying the OTP-required header, prompt for a code,
// attach it, and resend exactly once. Everything else is terminal.
func (c *APIClient) do(operation string, fn func() (*gh.Response, error)) error {
	resp, err := fn()
	if err == nil {
		return nil
	}

	if otpRequired(resp) {
		c.logDebug("two-factor authentication required", "operation", operation)

		code, promptErr := c.prompt()
		if promptErr != nil {
			return landerrors.NewAPIErrorWithCause(operation, "two-factor prompt failed", promptErr)
		}

		c.transport.OTP = code
		resp, err = fn()
		if err == nil {
			return nil
		}
	}

	return toAPIError(operation, resp, err)
}

// otpRequired reports whether a response is a two-factor challenge: status
// 401 or 404 with an X-GitHub-OTP header starting with "required".
func otpRequired(resp *gh.Response) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	if resp.StatusCode != 401 && resp.StatusCode != 404 {
		return false
	}
	return strings.HasPrefix(resp.Header.Get(otpHeader), "required")
}

func toAPIError(operation string, resp *gh.Response, err error) error {
	if resp != nil && resp.StatusCode > 0 {
		return landerrors.NewAPIErrorWithStatus(operation, resp.StatusCode, err.Error())
	}
	return landerrors.NewAPIErrorWithCause(operation, "API request failed", err)
}

func (c *APIClient) logDebug(msg string, args ...any) {
	if c.verbose {
		c.logger.Debug(msg, args...)
	}
}

// promptOTP interactively reads a one-time password from stdin. Returns an
// empty string on end-of-input.
func promptOTP() (string, error) {
	fmt.Fprint(os.Stderr, "two-factor authentication code: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func pullRequestFromGitHub(pr *gh.PullRequest) *PullRequest {
	out := &PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		State:   pr.GetState(),
		HTMLURL: pr.GetHTMLURL(),
		// A null mergeable from the API (computation pending) maps to
		// false: the workflow aborts rather than mutating on unknown state.
		Mergeable: pr.GetMergeable(),
		Base:      branchFromGitHub(pr.GetBase()),
		Head:      branchFromGitHub(pr.GetHead()),
	}
	return out
}

func branchFromGitHub(b *gh.PullRequestBranch) Branch {
	if b == nil {
		return Branch{}
	}
	return Branch{
		SHA:      b.GetSHA(),
		Ref:      b.GetRef(),
		CloneURL: b.GetRepo().GetCloneURL(),
		Label:    b.GetLabel(),
		Login:    b.GetUser().GetLogin(),
	}
}
