package cli

import (
	"fmt"
	"strings"

	"github.com/apkforge/apkforge/internal/branding"
	"github.com/apkforge/apkforge/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: fmt.Sprintf(`Read and write settings stored at ~/%s/config.yaml.

Keys: %s
Each key can also be set through the environment, e.g. %s.`,
		branding.HomeDir(), strings.Join(config.Keys, ", "), branding.EnvVar("PLATFORM_MIN_SDK")),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		key, value := args[0], args[1]
		if !config.Known(key) {
			return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(config.Keys, ", "))
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		for _, k := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", k, config.Get(k))
		}
		return nil
	},
}
