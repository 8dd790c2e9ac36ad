package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/agentboard/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	envFlags    serverFlags
	envNoRedact bool
)

func init() {
	envFlags.bind(envCmd)
	envCmd.Flags().BoolVar(&envNoRedact, "no-redact", false, "Show values without redaction")
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment the dashboard server is started with",
	Long: `Print the variables layered over the inherited environment when the
dashboard starts: entries from ~/.agentboard/env/ui.env first, then the
values the CLI always sets. Secret-looking values are redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := envFlags.launchConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# entry point: %s\n", cfg.EntryPoint)
		fmt.Fprintf(out, "# state file:  %s\n", cfg.StatePath)
		for _, kv := range cfg.Overrides {
			key, value, _ := strings.Cut(kv, "=")
			if !envNoRedact {
				value = userdata.RedactValue(key, value)
			}
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	},
}
