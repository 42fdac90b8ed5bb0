package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"mfeller.dev/land/pkg/config"
	landerrors "mfeller.dev/land/pkg/errors"
)

// defaultConfigTemplate is what 'land config init' writes: every key present
// with its default value and a comment explaining it.
const defaultConfigTemplate = `# land configuration

[github]
# API host credentials are resolved for and requests are sent to.
# Change only for GitHub Enterprise.
host = "api.github.com"
# OAuth app client ID used by 'land auth login' (device flow).
client_id = ""

[merge]
# Persist resolved credentials back to the git credential store after use.
# The --nosavepw flag overrides this per run.
save_password = true

[editor]
# Close-message editor. Empty means git core.editor, then $VISUAL, $EDITOR, vi.
command = ""
`

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage land configuration",
	Long: `Manage land's configuration file.

Configuration is read from ~/.config/land/config.toml, overridden by a
repo-local .land.toml, then by LAND_* environment variables.

Examples:
  land config init   # Write a default config file
  land config show   # Print the effective configuration`,
}

var configInitForce bool

// configInitCmd writes a default configuration file.
var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write a default configuration file",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit()
	},
}

// configShowCmd prints the effective configuration.
var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit() error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return landerrors.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, ".config", "land", "config.toml")
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return landerrors.Newf("config file %s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return landerrors.Wrap(err, "failed to create config directory")
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return landerrors.Wrap(err, "failed to write config file")
	}

	fmt.Printf("%s Wrote %s\n", checkMark(), path)
	return nil
}

func runConfigShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return landerrors.Wrap(err, "failed to load configuration")
	}

	data, err := toml.Marshal(configSettings(cfg))
	if err != nil {
		return landerrors.Wrap(err, "failed to encode configuration")
	}

	fmt.Print(string(data))
	return nil
}

// configSettings maps the config struct onto the TOML key layout the loader
// reads back. Kept by hand because the struct carries mapstructure tags, not
// toml tags.
func configSettings(cfg *config.Config) map[string]any {
	return map[string]any{
		"github": map[string]any{
			"host":      cfg.GitHub.Host,
			"client_id": cfg.GitHub.ClientID,
		},
		"merge": map[string]any{
			"save_password": cfg.Merge.SavePassword,
		},
		"editor": map[string]any{
			"command": cfg.Editor.Command,
		},
	}
}
