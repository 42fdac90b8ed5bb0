package git

import (
	"context"
	"strings"

	landerrors "mfeller.dev/land/pkg/errors"
)

// OAuthBasicPassword is the password GitHub expects when the username slot
// carries an OAuth token over basic auth.
const OAuthBasicPassword = "x-oauth-basic"

// tokenUsername is the credential-store username convention that marks the
// stored password as an OAuth token.
const tokenUsername = "token"

// Credentials is a username/password pair resolved from the git credential
// store. The password is a secret and must never be logged.
type Credentials struct {
	Username string
	Password string
}

// NormalizeToken reinterprets the literal "token" username as OAuth: the
// token value moves into the username slot and a fixed placeholder becomes
// the password, matching GitHub's basic-auth convention for tokens.
func (c Credentials) NormalizeToken() Credentials {
	if c.Username == tokenUsername {
		return Credentials{Username: c.Password, Password: OAuthBasicPassword}
	}
	return c
}

// CredentialStore talks the git credential helper protocol: newline
// delimited key=value pairs on stdin/stdout of `git credential <action>`.
type CredentialStore struct {
	runner   CommandRunner
	protocol string
	host     string
}

// NewCredentialStore creates a store for the given host over https.
func NewCredentialStore(runner CommandRunner, host string) *CredentialStore {
	return &CredentialStore{runner: runner, protocol: "https", host: host}
}

// Fill resolves credentials for the store's host via `git credential fill`.
// It fails with a CredentialError when either field is absent from the
// response.
func (s *CredentialStore) Fill(ctx context.Context) (Credentials, error) {
	input := "protocol=" + s.protocol + "\nhost=" + s.host + "\n\n"

	out, err := s.runner.OutputWithInput(ctx, input, "git", "credential", "fill")
	if err != nil {
		return Credentials{}, landerrors.NewCredentialErrorWithCause("", "git credential fill failed", err)
	}

	creds := parseCredentialOutput(out)
	if creds.Username == "" {
		return Credentials{}, landerrors.NewCredentialError("username", "missing from credential store response")
	}
	if creds.Password == "" {
		return Credentials{}, landerrors.NewCredentialError("password", "missing from credential store response")
	}

	return creds, nil
}

// Approve persists credentials back to the store via `git credential
// approve`. A failure here is fatal to the run; it is not downgraded.
func (s *CredentialStore) Approve(ctx context.Context, creds Credentials) error {
	if _, err := s.runner.OutputWithInput(ctx, s.payload(creds), "git", "credential", "approve"); err != nil {
		return landerrors.NewCredentialErrorWithCause("", "git credential approve failed", err)
	}
	return nil
}

// Reject asks the store to drop the credentials, e.g. on logout.
func (s *CredentialStore) Reject(ctx context.Context, creds Credentials) error {
	if _, err := s.runner.OutputWithInput(ctx, s.payload(creds), "git", "credential", "reject"); err != nil {
		return landerrors.NewCredentialErrorWithCause("", "git credential reject failed", err)
	}
	return nil
}

func (s *CredentialStore) payload(creds Credentials) string {
	var b strings.Builder
	b.WriteString("protocol=" + s.protocol + "\n")
	b.WriteString("host=" + s.host + "\n")
	b.WriteString("username=" + creds.Username + "\n")
	b.WriteString("password=" + creds.Password + "\n")
	b.WriteString("\n")
	return b.String()
}

// parseCredentialOutput parses key=value lines from a credential helper.
func parseCredentialOutput(out string) Credentials {
	var creds Credentials
	for _, line := range strings.Split(out, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "username":
			creds.Username = value
		case "password":
			creds.Password = value
		}
	}
	return creds
}
