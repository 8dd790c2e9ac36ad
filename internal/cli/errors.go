package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/agentx-labs/agentboard/internal/uiserver"
)

// PrintError writes err for the user. A missing dashboard entry point is
// followed by the paths that were checked and how to fix it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var cfgErr *uiserver.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return
	}
	fmt.Fprintln(w, "Checked:")
	for _, path := range cfgErr.Candidates {
		fmt.Fprintf(w, "  - %s\n", path)
	}
	if cfgErr.Override {
		fmt.Fprintf(w, "Point %s at an existing server entry point, or unset it.\n", uiserver.EnvEntry)
		return
	}
	fmt.Fprintln(w, "Build the UI first (npm run build in the ui/ directory), or set "+
		uiserver.EnvEntry+" to the server entry point.")
}

// ExitCode maps an error returned by Execute to a process exit code: 0 for
// success and 1 for any failure. The dashboard's own exit code is only
// reported in the error message.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
