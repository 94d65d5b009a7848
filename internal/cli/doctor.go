package cli

import (
	"fmt"

	"github.com/apkforge/apkforge/internal/config"
	"github.com/apkforge/apkforge/internal/preflight"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the Android build toolchain is installed",
	Long: `Look up every tool a generated project needs (javac, d8, aapt2,
apksigner, keytool, zip) and report where each one was found. Nothing is
written. Exits non-zero when any tool is missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		s := config.Current()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Toolchain:")
		res := preflight.New(lookPath).Probe(preflight.RequiredTools)
		missing := preflight.WriteReport(out, res)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Platform:")
		fmt.Fprintf(out, "  min sdk     %d\n", s.MinSDK)
		fmt.Fprintf(out, "  target sdk  %d\n", s.TargetSDK)
		fmt.Fprintf(out, "  jar source  %s\n", s.PlatformJarURL)

		if missing > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, preflight.Hint)
			return reportedError{fmt.Errorf("%d of %d required tools missing", missing, len(res))}
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "All required tools found.")
		return nil
	},
}
