package cli

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/agentboard/internal/config"
	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/spf13/cobra"
)

// serverFlags are the --port/--host flags shared by the lifecycle commands.
type serverFlags struct {
	port int
	host string
}

func (f *serverFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.port, "port", uiserver.DefaultPort, "Dashboard port")
	cmd.Flags().StringVar(&f.host, "host", uiserver.DefaultHost, "Dashboard host")
}

// options converts the flags into resolver input. Only flags given on the
// command line count as explicit; an out-of-range port is a usage error.
func (f *serverFlags) options(cmd *cobra.Command) (uiserver.ResolveOptions, error) {
	opts := uiserver.ResolveOptions{FileValue: config.FileValue}
	if cmd.Flags().Changed("port") {
		if f.port < 1 || f.port > 65535 {
			return opts, fmt.Errorf("invalid --port %d: must be between 1 and 65535", f.port)
		}
		opts.Port = f.port
	}
	if cmd.Flags().Changed("host") {
		host := strings.TrimSpace(f.host)
		if host == "" {
			return opts, fmt.Errorf("invalid --host: must not be empty")
		}
		opts.Host = host
	}
	return opts, nil
}

// launchConfig resolves everything needed to spawn the dashboard.
func (f *serverFlags) launchConfig(cmd *cobra.Command) (*uiserver.ServerConfig, error) {
	opts, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	return uiserver.Resolve(opts)
}

// target resolves the port and state path only.
func (f *serverFlags) target(cmd *cobra.Command) (*uiserver.ServerConfig, error) {
	opts, err := f.options(cmd)
	if err != nil {
		return nil, err
	}
	return uiserver.ResolveTarget(opts), nil
}

// newSupervisor wires a supervisor to the command's streams.
func newSupervisor(cmd *cobra.Command) *uiserver.Supervisor {
	sup := uiserver.NewSupervisor()
	sup.Launcher.Stdout = cmd.OutOrStdout()
	sup.Launcher.Stderr = cmd.ErrOrStderr()
	sup.Launcher.Warn = cmd.ErrOrStderr()
	sup.Terminator.Warn = cmd.ErrOrStderr()
	return sup
}
