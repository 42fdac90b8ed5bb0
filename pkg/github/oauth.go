package github

import (
	"fmt"
	"io"
	"os"

	"github.com/cli/oauth"
	"github.com/cli/oauth/api"

	landerrors "mfeller.dev/land/pkg/errors"
)

const (
	// DefaultOAuthHost is the web host used for device flow authorization.
	DefaultOAuthHost = "https://github.com"

	// DefaultScopes are the OAuth scopes required for closing pull requests.
	DefaultScopes = "repo"
)

// OAuthConfig holds OAuth configuration for device flow authentication.
type OAuthConfig struct {
	ClientID string   // OAuth app client ID (required for device flow)
	Scopes   []string // OAuth scopes to request
	HostURL  string   // GitHub host URL (default: github.com)
}

// DeviceAuth performs OAuth device flow authentication.
// It displays a code for the user to enter at GitHub's verification URL,
// then polls until authorization completes.
func DeviceAuth(cfg OAuthConfig, stdout io.Writer) (*api.AccessToken, error) {
	if cfg.ClientID == "" {
		return nil, landerrors.NewAPIError("DeviceAuth", "client_id is required for OAuth device flow; set github.client_id in config")
	}

	hostURL := cfg.HostURL
	if hostURL == "" {
		hostURL = DefaultOAuthHost
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{DefaultScopes}
	}

	host, err := oauth.NewGitHubHost(hostURL)
	if err != nil {
		return nil, landerrors.NewAPIErrorWithCause("DeviceAuth", "invalid GitHub host URL", err)
	}

	flow := &oauth.Flow{
		Host:     host,
		ClientID: cfg.ClientID,
		Scopes:   scopes,
		Stdout:   stdout,
		Stdin:    os.Stdin,
		DisplayCode: func(code, verificationURL string) error {
			fmt.Fprintf(stdout, "\n! First, copy your one-time code: %s\n", code)
			fmt.Fprintf(stdout, "- Press Enter to open %s in your browser...\n", verificationURL)
			return nil
		},
	}

	// cli/oauth handles the polling loop internally.
	token, err := flow.DeviceFlow()
	if err != nil {
		return nil, landerrors.NewAPIErrorWithCause("DeviceAuth", "device flow failed", err)
	}

	return token, nil
}
