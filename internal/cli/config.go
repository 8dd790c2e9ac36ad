package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/agentboard/internal/branding"
	"github.com/agentx-labs/agentboard/internal/config"
	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.

Dashboard keys:
  ` + config.KeyUIHost + `   host the dashboard binds to
  ` + config.KeyUIPort + `   port the dashboard listens on`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := validateConfigValue(key, value); err != nil {
			return err
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
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

// validateConfigValue rejects dashboard settings the resolver would ignore.
func validateConfigValue(key, value string) error {
	switch key {
	case config.KeyUIPort:
		if _, ok := uiserver.ParsePort(value); !ok {
			return fmt.Errorf("invalid %s %q: must be an integer between 1 and 65535", key, value)
		}
	case config.KeyUIHost:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("invalid %s: must not be empty", key)
		}
	}
	return nil
}
