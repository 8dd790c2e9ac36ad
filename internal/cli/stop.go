package cli

import (
	"fmt"
	"time"

	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

var (
	stopFlags        serverFlags
	stopSoftTimeout  time.Duration
	stopForceTimeout time.Duration
)

func init() {
	stopFlags.bind(stopCmd)
	stopCmd.Flags().DurationVar(&stopSoftTimeout, "soft-timeout", uiserver.DefaultSoftTimeout, "How long to wait after the graceful signal")
	stopCmd.Flags().DurationVar(&stopForceTimeout, "force-timeout", uiserver.DefaultForceTimeout, "How long to wait after the forced signal")
	rootCmd.AddCommand(stopCmd)
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the dashboard server tracked for a port",
	Long: `Stop the dashboard server recorded for the port. The server gets a graceful
signal first and a forced one if it outlives --soft-timeout. Stale records
are cleared. Stopping a port with nothing tracked succeeds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if stopSoftTimeout <= 0 || stopForceTimeout <= 0 {
			return fmt.Errorf("--soft-timeout and --force-timeout must be positive")
		}
		cfg, err := stopFlags.target(cmd)
		if err != nil {
			return err
		}
		sup := newSupervisor(cmd)
		sup.Terminator.SoftTimeout = stopSoftTimeout
		sup.Terminator.ForceTimeout = stopForceTimeout

		res, err := sup.Stop(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeStop(cfg, res))
		return nil
	},
}

// describeStop renders a StopResult as one line for the user.
func describeStop(cfg *uiserver.ServerConfig, res uiserver.StopResult) string {
	switch {
	case res.Forced:
		return fmt.Sprintf("Stopped dashboard on port %d (pid %d) after forced termination", cfg.Port, res.PID)
	case res.Stopped:
		return fmt.Sprintf("Stopped dashboard on port %d (pid %d)", cfg.Port, res.PID)
	case res.Note == uiserver.NoteNothingTracked:
		return fmt.Sprintf("No dashboard tracked on port %d", cfg.Port)
	case res.PID > 0:
		return fmt.Sprintf("Port %d: %s (pid %d was not running)", cfg.Port, res.Note, res.PID)
	default:
		return fmt.Sprintf("Port %d: %s", cfg.Port, res.Note)
	}
}
