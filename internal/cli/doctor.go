package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agentx-labs/agentboard/internal/platform"
	"github.com/agentx-labs/agentboard/internal/runtime"
	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/agentx-labs/agentboard/internal/userdata"
	"github.com/spf13/cobra"
)

var doctorFlags serverFlags

func init() {
	doctorFlags.bind(doctorCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the dashboard can be started",
	Long: `Run diagnostic checks for the dashboard: entry point resolution, the Node.js
runtime and its version, the tsx loader for TypeScript entry points, and the
run directory used for tracking.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := doctorFlags.options(cmd)
		if err != nil {
			return err
		}
		r := &doctorReport{w: cmd.OutOrStdout()}
		cfg := r.checkEntry(opts)
		r.checkNode(cmd.Context())
		r.checkShim(cfg)
		r.checkRunDir(userdata.GetRunDir())
		if r.failed > 0 {
			return fmt.Errorf("%d check(s) failed", r.failed)
		}
		return nil
	},
}

// doctorReport prints check results and counts failures.
type doctorReport struct {
	w      io.Writer
	failed int
}

func (r *doctorReport) ok(format string, args ...any) {
	fmt.Fprintf(r.w, "  [ OK ] "+format+"\n", args...)
}

func (r *doctorReport) fail(format string, args ...any) {
	r.failed++
	fmt.Fprintf(r.w, "  [FAIL] "+format+"\n", args...)
}

func (r *doctorReport) info(format string, args ...any) {
	fmt.Fprintf(r.w, "  [INFO] "+format+"\n", args...)
}

func (r *doctorReport) checkEntry(opts uiserver.ResolveOptions) *uiserver.ServerConfig {
	fmt.Fprintln(r.w, "Dashboard check:")
	cfg, err := uiserver.Resolve(opts)
	if err != nil {
		var cfgErr *uiserver.ConfigurationError
		if errors.As(err, &cfgErr) {
			r.fail("no entry point found")
			for _, path := range cfgErr.Candidates {
				fmt.Fprintf(r.w, "         tried %s\n", path)
			}
			return nil
		}
		r.fail("%v", err)
		return nil
	}
	r.ok("entry point %s", cfg.EntryPoint)
	r.info("address %s (host from %s, port from %s)", cfg.Addr(), cfg.HostSource, cfg.PortSource)
	return cfg
}

func (r *doctorReport) checkNode(ctx context.Context) {
	fmt.Fprintln(r.w, "Runtime check:")
	node, err := runtime.FindNode()
	if err != nil {
		r.fail("%v", err)
		return
	}
	r.ok("node found at %s", node.Bin)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	v, err := node.Version(ctx)
	if err != nil {
		r.fail("%v", err)
		return
	}
	if err := runtime.CheckVersion(v, runtime.MinNodeVersion); err != nil {
		r.fail("%v", err)
		return
	}
	r.ok("node %s (>= %s)", v, runtime.MinNodeVersion)
}

func (r *doctorReport) checkShim(cfg *uiserver.ServerConfig) {
	if cfg == nil {
		return
	}
	if !cfg.NeedsShim {
		r.info("prebuilt entry point, %s loader not needed", runtime.ShimLoader)
		return
	}
	if !runtime.HasShim(cfg.WorkDir) {
		r.fail("%s loader not installed for %s (run npm install in %s)", runtime.ShimLoader, cfg.EntryPoint, cfg.WorkDir)
		return
	}
	r.ok("%s loader available", runtime.ShimLoader)
}

func (r *doctorReport) checkRunDir(dir string) {
	fmt.Fprintln(r.w, "State check:")
	if err := platform.EnsureDir(dir, userdata.DirPermSecure); err != nil {
		r.fail("%v", err)
		return
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		r.fail("run directory %s is not writable: %v", dir, err)
		return
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	r.ok("run directory %s is writable", dir)
}
