package cli

import (
	"encoding/json"
	"fmt"

	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/config"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json shape. The platform fields are the levels new
// projects are generated against, after config and environment overrides.
type versionInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
	MinSDK         int    `json:"min_sdk"`
	TargetSDK      int    `json:"target_sdk"`
	PlatformJarURL string `json:"platform_jar_url"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		config.Load()
		settings := config.Current()

		if versionJSON {
			info := versionInfo{
				Version:        buildVersion,
				Commit:         buildCommit,
				Date:           buildDate,
				MinSDK:         settings.MinSDK,
				TargetSDK:      settings.TargetSDK,
				PlatformJarURL: settings.PlatformJarURL,
			}
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), buildVersion, buildCommit, buildDate)
		fmt.Fprintf(out, "generates projects for android-%d (min sdk %d)\n", settings.TargetSDK, settings.MinSDK)
		return nil
	},
}
