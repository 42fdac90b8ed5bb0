package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	landerrors "mfeller.dev/land/pkg/errors"
	"mfeller.dev/land/pkg/git"
	"mfeller.dev/land/pkg/github"
)

var viewOutput string

// viewCmd displays a pull request without touching the working tree.
var viewCmd = &cobra.Command{
	Use:   "view <pull-request-url>",
	Short: "View pull request details",
	Long: `View details for a pull request without merging anything.

The same credentials as the merge workflow are used, but nothing is saved
back to the credential store and no git command mutates the working tree.

Examples:
  land view https://github.com/acme/widgets/pull/42
  land view --output json https://github.com/acme/widgets/pull/42
  land view --output yaml https://github.com/acme/widgets/pull/42`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(args[0])
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "text", "Output format (text, json, yaml)")
}

func runView(rawURL string) error {
	ref, err := github.ParsePullRequestURL(rawURL)
	if err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	ctx := context.Background()

	runner := git.NewRunner()
	store := git.NewCredentialStore(runner, cfg.GitHub.Host)

	// Fill only: a read-only command never writes the credential store.
	creds, err := store.Fill(ctx)
	if err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	client := github.NewAPIClient(creds.NormalizeToken(), verbose, apiClientOptions(cfg)...)

	pr, err := client.GetPullRequest(ctx, ref)
	if err != nil {
		fmt.Println(landerrors.FormatUserError(err))
		return err
	}

	return renderPR(ref, pr, viewOutput)
}

// renderPR writes the pull request in the requested format.
func renderPR(ref github.PullRequestRef, pr *github.PullRequest, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(pr, "", "  ")
		if err != nil {
			return landerrors.Wrap(err, "failed to encode pull request")
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(pr)
		if err != nil {
			return landerrors.Wrap(err, "failed to encode pull request")
		}
		fmt.Print(string(data))
	case "text":
		displayPR(ref, pr)
	default:
		return landerrors.Newf("unknown output format '%s' (want text, json, or yaml)", format)
	}
	return nil
}

// displayPR formats and prints PR information.
func displayPR(ref github.PullRequestRef, pr *github.PullRequest) {
	fmt.Printf("\n%s: %s\n", ref.String(), pr.Title)
	if pr.HTMLURL != "" {
		fmt.Printf("URL: %s\n", pr.HTMLURL)
	}
	fmt.Println(strings.Repeat("-", 60))

	fmt.Printf("State:     %s\n", pr.State)
	fmt.Printf("Branches:  %s -> %s\n", pr.Head.Label, pr.Base.Label)
	fmt.Printf("Head:      %s\n", pr.Head.SHA)
	fmt.Printf("Base:      %s\n", pr.Base.SHA)

	if pr.Mergeable {
		fmt.Printf("Mergeable: %s No conflicts\n", checkMark())
		fmt.Printf("\n%s Ready to land\n", checkMark())
	} else {
		fmt.Printf("Mergeable: %s Not mergeable\n", crossMark())
		fmt.Println("\nResolve conflicts upstream before landing this PR.")
	}

	fmt.Println()
}
