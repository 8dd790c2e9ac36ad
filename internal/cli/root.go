package cli

import (
	"fmt"

	"github.com/agentx-labs/agentboard/internal/branding"
	"github.com/agentx-labs/agentboard/internal/config"
	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` runs the local dashboard server, tracks it per port across
invocations, and stops it cleanly (or forcibly) on request.

` + defaultsNote(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// defaultsNote documents where the dashboard listens when nothing is set.
func defaultsNote() string {
	return fmt.Sprintf(`The dashboard listens on %s:%d by default. --host/--port override
%s/%s, which override ui.host/ui.port in %s.`,
		uiserver.DefaultHost, uiserver.DefaultPort,
		uiserver.EnvHost, uiserver.EnvPort, "~/"+branding.HomeDir()+"/config.yaml")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
