package cli

import (
	"fmt"

	"github.com/agentx-labs/agentboard/internal/branding"
	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

var startFlags serverFlags

func init() {
	startFlags.bind(startCmd)
	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the dashboard server in the foreground",
	Long: `Start the dashboard server and block until it exits. While it runs, the
server is tracked in ~/` + branding.HomeDir() + `/run so that "stop" and "restart" from
another terminal can find it. Ctrl-C stops the server.

` + defaultsNote(),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := startFlags.launchConfig(cmd)
		if err != nil {
			return err
		}
		announceStart(cmd, cfg)
		_, err = newSupervisor(cmd).Start(cmd.Context(), cfg)
		return err
	},
}

func announceStart(cmd *cobra.Command, cfg *uiserver.ServerConfig) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Starting %s dashboard on http://%s (%s)\n",
		branding.DisplayName(), cfg.Addr(), cfg.EntryPoint)
}
