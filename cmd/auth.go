package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/term"

	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
	"mfeller.dev/land/pkg/github"
)

// authCmd groups authentication subcommands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage GitHub authentication",
	Long: `Manage the GitHub credentials land uses.

Credentials live in your git credential store; land reads them with
'git credential fill' and writes them back with 'git credential approve'.
A personal access token is stored under the username 'token'.

Examples:
  land auth login              # OAuth device flow
  land auth login --with-token # Paste a personal access token
  land auth status             # Show who you are authenticated as
  land auth logout             # Remove stored credentials`,
}

var authLoginWithToken bool

// authLoginCmd authenticates with GitHub and stores the result.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with GitHub",
	Long: `Authenticate with GitHub and store the token in your git credential store.

By default this runs the OAuth device flow: you get a one-time code to enter
at GitHub's verification page. Requires github.client_id in your config.

With --with-token, a personal access token is read from stdin instead. The
token needs the 'repo' scope.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthLogin()
	},
}

// authStatusCmd shows the authenticated user.
var authStatusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Show authentication status",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthStatus()
	},
}

// authLogoutCmd removes stored credentials.
var authLogoutCmd = &cobra.Command{
	Use:          "logout",
	Short:        "Remove stored GitHub credentials",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuthLogout()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)

	authLoginCmd.Flags().BoolVar(&authLoginWithToken, "with-token", false, "Read a personal access token from stdin")
}

func runAuthLogin() error {
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	ctx := context.Background()

	var tokenValue string
	if authLoginWithToken {
		tokenValue, err = readTokenFromStdin()
		if err != nil {
			return err
		}
	} else {
		token, err := github.DeviceAuth(github.OAuthConfig{
			ClientID: cfg.GitHub.ClientID,
		}, os.Stdout)
		if err != nil {
			fmt.Println(landerrors.FormatUserError(err))
			return err
		}
		tokenValue = token.Token
	}

	if tokenValue == "" {
		return landerrors.NewCredentialError("password", "empty token")
	}

	// Stored under the 'token' username so later fills normalize it into
	// GitHub's token-over-basic-auth convention.
	creds := git.Credentials{Username: "token", Password: tokenValue}

	runner := git.NewRunner()
	store := git.NewCredentialStore(runner, cfg.GitHub.Host)
	if err := store.Approve(ctx, creds); err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	// Keep the keychain/file cache in sync for tooling that reads it.
	cache := github.NewTokenCache()
	if err := cache.Set(&oauth2.Token{AccessToken: tokenValue, TokenType: "bearer"}); err != nil {
		fmt.Printf("Warning: could not cache token: %v\n", err)
	}

	// Verify the token actually works before declaring success.
	client := github.NewAPIClient(creds.NormalizeToken(), verbose, apiClientOptions(cfg)...)
	login, err := client.CurrentUser(ctx)
	if err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	fmt.Printf("%s Logged in as %s\n", checkMark(), login)
	return nil
}

func runAuthStatus() error {
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	ctx := context.Background()

	runner := git.NewRunner()
	store := git.NewCredentialStore(runner, cfg.GitHub.Host)

	creds, err := store.Fill(ctx)
	if err != nil {
		fmt.Printf("%s Not authenticated for %s\n", crossMark(), cfg.GitHub.Host)
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	client := github.NewAPIClient(creds.NormalizeToken(), verbose, apiClientOptions(cfg)...)
	login, err := client.CurrentUser(ctx)
	if err != nil {
		fmt.Printf("%s Stored credentials for %s were rejected\n", crossMark(), cfg.GitHub.Host)
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	fmt.Printf("%s Authenticated to %s as %s\n", checkMark(), cfg.GitHub.Host, login)
	return nil
}

func runAuthLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	ctx := context.Background()

	runner := git.NewRunner()
	store := git.NewCredentialStore(runner, cfg.GitHub.Host)

	creds, err := store.Fill(ctx)
	if err == nil {
		if err := store.Reject(ctx, creds); err != nil {
			fmt.Println(landerrors.FormatUserError(err))
			return err
		}
	}

	cache := github.NewTokenCache()
	if err := cache.Clear(); err != nil {
		fmt.Printf("Warning: could not clear cached token: %v\n", err)
	}

	fmt.Printf("%s Logged out of %s\n", checkMark(), cfg.GitHub.Host)
	return nil
}

// readTokenFromStdin reads a token without echoing when stdin is a terminal.
func readTokenFromStdin() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Paste your personal access token: ")
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", landerrors.Wrap(err, "failed to read token")
		}
		return strings.TrimSpace(string(data)), nil
	}

	// Piped input, e.g. land auth login --with-token < token.txt
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", landerrors.Wrap(err, "failed to read token")
	}
	return strings.TrimSpace(line), nil
}
