package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	buildTime  = "unknown"
	checkOnly  bool
)

// SetVersion records build information
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// No config or session needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "myflix %s (built %s)\n", appVersion, buildTime)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update myflix to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(appVersion)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", appVersion)
	}

	ctx := cmd.Context()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(cfg.Update.Repository))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", cfg.Update.Repository)
	}

	out := cmd.OutOrStdout()
	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "myflix %s is up to date\n", current)
		return nil
	}
	if checkOnly {
		fmt.Fprintf(out, "myflix %s is available (current %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Str("path", exe).Msg("Updating")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintf(out, "Updated myflix to %s\n", latest.Version())
	return nil
}
