package cli

import (
	"fmt"

	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

var restartFlags serverFlags

func init() {
	restartFlags.bind(restartCmd)
	rootCmd.AddCommand(restartCmd)
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop the tracked dashboard and run a fresh one in the foreground",
	Long: `Stop whatever dashboard is tracked for the port, then start a new one and
block until it exits. Nothing is started when the stop fails.

` + defaultsNote(),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := restartFlags.launchConfig(cmd)
		if err != nil {
			return err
		}
		_, err = newSupervisor(cmd).Restart(cmd.Context(), cfg, func(res uiserver.StopResult) {
			fmt.Fprintln(cmd.ErrOrStderr(), describeStop(cfg, res))
			announceStart(cmd, cfg)
		})
		return err
	},
}
