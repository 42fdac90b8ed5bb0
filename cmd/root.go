package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mfeller.dev/land/pkg/bootstrap"
	"mfeller.dev/land/pkg/config"
)

var cfgFile string
var verbose bool
var appConfig *config.Config

// rootCmd is the orchestrator itself: land takes a pull request URL and
// runs the whole merge workflow. Everything else is a subcommand.
var rootCmd = &cobra.Command{
	Use:   "land <pull-request-url>",
	Short: "Land - rebase, fast-forward, and close GitHub pull requests locally",
	Long: `Land merges a GitHub pull request through your local working tree instead
of the merge button: it rebases the PR's head onto its base branch, fast-forwards
the base, pushes, posts your close message as a comment, and closes the PR.

The workflow:
  1. Resolve credentials via the git credential store
  2. Fetch the pull request and verify it is mergeable
  3. Rebase and fast-forward merge into the base branch locally
  4. Open your editor for a close message (leave it empty to cancel)
  5. Push, comment, and close the pull request

Your original checked-out branch is restored on every exit, including Ctrl-C.

Examples:
  land https://github.com/acme/widgets/pull/42
  land --nosavepw https://github.com/acme/widgets/pull/42
  land view https://github.com/acme/widgets/pull/42`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// 1. Pre-parse global flags to initialize config early, before cobra
	// parses anything.
	cfgFile, verbose = bootstrap.PreParseGlobalFlags(os.Args)

	// 2. Initialize configuration (bootstrap)
	if err := initConfig(); err != nil {
		cobra.CheckErr(err)
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		_ = initConfig()
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/land/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error
	appConfig, verbose, err = bootstrap.InitConfig(cfgFile, verbose)
	return err
}

// loadConfig returns the latest configuration derived from viper.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// resetConfig clears the cached configuration.
// This is primarily used in tests to ensure each test starts with a fresh config.
func resetConfig() {
	appConfig = nil
	bootstrap.Reset()
	viper.Reset()
}
