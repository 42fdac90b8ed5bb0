package github

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
)

var testRef = PullRequestRef{Owner: "acme", Repo: "widgets", Number: 42}

func newTestClient(t *testing.T, handler http.Handler, opts ...APIClientOption) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := git.Credentials{Username: "alice", Password: "hunter2"}
	opts = append([]APIClientOption{WithBaseURL(server.URL)}, opts...)
	return NewAPIClient(creds, false, opts...)
}

func TestAPIClient_GetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "request must use basic auth")
		assert.Equal(t, "alice", user)
		assert.Equal(t, "hunter2", pass)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"number": 42,
			"title": "Add feature x",
			"state": "open",
			"mergeable": true,
			"html_url": "https://github.com/acme/widgets/pull/42",
			"base": {
				"sha": "basesha",
				"ref": "main",
				"label": "acme:main",
				"repo": {"clone_url": "https://github.com/acme/widgets.git"}
			},
			"head": {
				"sha": "headsha",
				"ref": "feature-x",
				"label": "alice:feature-x",
				"user": {"login": "alice"},
				"repo": {"clone_url": "https://github.com/alice/widgets.git"}
			}
		}`)
	})

	client := newTestClient(t, mux)

	pr, err := client.GetPullRequest(t.Context(), testRef)
	require.NoError(t, err)

	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "Add feature x", pr.Title)
	assert.True(t, pr.Mergeable)
	assert.Equal(t, Branch{
		SHA:      "basesha",
		Ref:      "main",
		CloneURL: "https://github.com/acme/widgets.git",
		Label:    "acme:main",
	}, pr.Base)
	assert.Equal(t, Branch{
		SHA:      "headsha",
		Ref:      "feature-x",
		CloneURL: "https://github.com/alice/widgets.git",
		Label:    "alice:feature-x",
		Login:    "alice",
	}, pr.Head)
}

func TestAPIClient_GetPullRequest_NullMergeable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// mergeable omitted: GitHub is still computing it.
		io.WriteString(w, `{"number": 42, "state": "open"}`)
	})

	client := newTestClient(t, mux)

	pr, err := client.GetPullRequest(t.Context(), testRef)
	require.NoError(t, err)
	assert.False(t, pr.Mergeable, "null mergeable must map to false")
}

func TestAPIClient_CreateComment(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload.Body

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 1}`)
	})

	client := newTestClient(t, mux)

	err := client.CreateComment(t.Context(), testRef, "Merged, thanks!")
	require.NoError(t, err)
	assert.Equal(t, "Merged, thanks!", gotBody)
}

func TestAPIClient_ClosePullRequest(t *testing.T) {
	var gotState string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			State string `json:"state"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotState = payload.State

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"number": 42, "state": "closed"}`)
	})

	client := newTestClient(t, mux)

	err := client.ClosePullRequest(t.Context(), testRef)
	require.NoError(t, err)
	assert.Equal(t, "closed", gotState)
}

func TestAPIClient_CurrentUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"login": "alice"}`)
	})

	client := newTestClient(t, mux)

	login, err := client.CurrentUser(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "alice", login)
}

func TestAPIClient_OTPRetry(t *testing.T) {
	var attempts int
	var secondOTP string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("X-GitHub-OTP", "required; sms")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message": "Must specify two-factor authentication OTP code."}`)
			return
		}
		secondOTP = r.Header.Get("X-GitHub-OTP")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"number": 42, "mergeable": true}`)
	})

	var prompts int
	client := newTestClient(t, mux, WithOTPPrompt(func() (string, error) {
		prompts++
		return "123456", nil
	}))

	pr, err := client.GetPullRequest(t.Context(), testRef)
	require.NoError(t, err)

	assert.Equal(t, 2, attempts, "challenge must trigger exactly one resend")
	assert.Equal(t, 1, prompts, "user must be prompted exactly once")
	assert.Equal(t, "123456", secondOTP, "resend must carry the code header")
	assert.Equal(t, 42, pr.Number)
}

func TestAPIClient_OTPRetry_SecondFailureIsTerminal(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("X-GitHub-OTP", "required; app")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message": "Must specify two-factor authentication OTP code."}`)
	})

	var prompts int
	client := newTestClient(t, mux, WithOTPPrompt(func() (string, error) {
		prompts++
		return "000000", nil
	}))

	_, err := client.GetPullRequest(t.Context(), testRef)
	require.Error(t, err)

	assert.Equal(t, 2, attempts, "no further retries after the single resend")
	assert.Equal(t, 1, prompts)

	var apiErr *landerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestAPIClient_PlainUnauthorizedIsNotRetried(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message": "Bad credentials"}`)
	})

	var prompts int
	client := newTestClient(t, mux, WithOTPPrompt(func() (string, error) {
		prompts++
		return "", nil
	}))

	_, err := client.GetPullRequest(t.Context(), testRef)
	require.Error(t, err)

	assert.Equal(t, 1, attempts, "401 without OTP header must not be retried")
	assert.Zero(t, prompts, "prompt must not fire without an OTP challenge")

	var apiErr *landerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "Bad credentials")
}

func TestAPIClient_ServerErrorCarriesStatusAndBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"message": "upstream exploded"}`)
	})

	client := newTestClient(t, mux)

	err := client.CreateComment(t.Context(), testRef, "hello")
	require.Error(t, err)

	var apiErr *landerrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream exploded")
	assert.True(t, apiErr.Retryable)
}
