// Package github provides the GitHub REST integration for land.
//
// It parses pull request URLs, fetches pull request snapshots, and posts
// the close comment and state change, all over basic authentication with a
// single two-factor resend when GitHub asks for a one-time password.
package github

import (
	"net/url"
	"strconv"
	"strings"

	landerrors "mfeller.dev/land/pkg/errors"
)

// DefaultHost is the fixed API host credentials are resolved for and
// requests are sent to.
const DefaultHost = "api.github.com"

// PullRequestRef identifies a pull request, parsed once from the input URL.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

// String renders the ref as owner/repo#number.
func (r PullRequestRef) String() string {
	return r.Owner + "/" + r.Repo + "#" + strconv.Itoa(r.Number)
}

// Branch is one side of a pull request: the commit, its ref, where to fetch
// it from, and who owns it.
type Branch struct {
	SHA      string `json:"sha" yaml:"sha"`
	Ref      string `json:"ref" yaml:"ref"`
	CloneURL string `json:"clone_url" yaml:"clone_url"`
	Label    string `json:"label" yaml:"label"`
	Login    string `json:"login" yaml:"login"`
}

// PullRequest is a read-only snapshot from the API. It is never
// re-validated: if the remote PR changes after the fetch, the snapshot is
// stale.
type PullRequest struct {
	Number    int    `json:"number" yaml:"number"`
	Title     string `json:"title" yaml:"title"`
	State     string `json:"state" yaml:"state"`
	Mergeable bool   `json:"mergeable" yaml:"mergeable"`
	Base      Branch `json:"base" yaml:"base"`
	Head      Branch `json:"head" yaml:"head"`
	HTMLURL   string `json:"html_url" yaml:"html_url"`
}

// ParsePullRequestURL decomposes a pull request web URL into its ref. The
// path must be exactly /<owner>/<repo>/pull/<number>; anything else is
// rejected.
func ParsePullRequestURL(raw string) (PullRequestRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return PullRequestRef{}, landerrors.NewParseError(raw, "not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return PullRequestRef{}, landerrors.NewParseError(raw, "URL scheme must be http or https")
	}

	segments := strings.Split(u.Path, "/")
	if len(segments) != 5 || segments[0] != "" {
		return PullRequestRef{}, landerrors.NewParseError(raw, "path must be /<owner>/<repo>/pull/<number>")
	}
	if segments[1] == "" || segments[2] == "" {
		return PullRequestRef{}, landerrors.NewParseError(raw, "owner and repository must be non-empty")
	}
	if segments[3] != "pull" {
		return PullRequestRef{}, landerrors.NewParseError(raw, "path must be /<owner>/<repo>/pull/<number>")
	}

	number, err := strconv.Atoi(segments[4])
	if err != nil || number <= 0 {
		return PullRequestRef{}, landerrors.NewParseError(raw, "pull request number must be a positive integer")
	}

	return PullRequestRef{Owner: segments[1], Repo: segments[2], Number: number}, nil
}
