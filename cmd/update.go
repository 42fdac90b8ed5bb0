package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	landerrors "mfeller.dev/land/pkg/errors"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X mfeller.dev/land/cmd.Version=1.2.3"
var Version = "dev"

const (
	repoOwner = "mfeller"
	repoName  = "land"
)

var (
	updateCheck bool
	updateForce bool
	updatePre   bool
	updateYes   bool
)

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// updateCmd self-updates the binary from GitHub releases.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update land to the latest version",
	Long: `Update land to the latest version from GitHub releases.

Downloads the release binary for your platform, verifies its checksums,
and replaces the running binary in place.

Examples:
  land update           # Update to the latest release
  land update --check   # Only check whether an update exists
  land update --yes     # Update without confirmation
  land update --force   # Reinstall even when already up to date
  land update --pre     # Include pre-release versions`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdateCommand()
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVarP(&updateCheck, "check", "c", false, "Check for updates without installing")
	updateCmd.Flags().BoolVarP(&updateForce, "force", "f", false, "Force update even when already up to date")
	updateCmd.Flags().BoolVarP(&updatePre, "pre", "p", false, "Include pre-release versions")
	updateCmd.Flags().BoolVarP(&updateYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runUpdateCommand() error {
	ctx := context.Background()

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Prerelease: updatePre,
	})
	if err != nil {
		return landerrors.Wrap(err, "failed to initialize updater")
	}

	repo := selfupdate.ParseSlug(repoOwner + "/" + repoName)

	latest, found, err := updater.DetectLatest(ctx, repo)
	if err != nil {
		return landerrors.Wrap(err, "failed to check for updates")
	}
	if !found {
		return landerrors.Newf("no release found for %s/%s", repoOwner, repoName)
	}

	isDevVersion := Version == "dev"
	if !isDevVersion {
		if _, err := semver.NewVersion(Version); err != nil {
			return landerrors.Wrapf(err, "current version %q is not valid semver", Version)
		}
	}

	if updateCheck {
		if !isDevVersion && latest.LessOrEqual(Version) {
			fmt.Printf("%s land %s is up to date\n", checkMark(), Version)
		} else {
			fmt.Printf("Update available: %s -> %s\n", Version, latest.Version())
		}
		return nil
	}

	if !isDevVersion && latest.LessOrEqual(Version) && !updateForce {
		fmt.Printf("%s land %s is already up to date\n", checkMark(), Version)
		return nil
	}

	if !updateYes && !confirmUpdate(Version, latest.Version()) {
		fmt.Println("Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return landerrors.Wrap(err, "failed to locate current binary")
	}

	fmt.Printf("Updating land to %s...\n", latest.Version())
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return landerrors.Wrap(err, "update failed")
	}

	fmt.Printf("%s Updated land to %s\n", checkMark(), latest.Version())
	return nil
}

// confirmUpdate prompts the user before replacing the binary.
func confirmUpdate(currentVersion, newVersion string) bool {
	fmt.Printf("Update land from %s to %s? [y/N]: ", currentVersion, newVersion)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
