package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agentx-labs/agentboard/internal/uiserver"
	"github.com/agentx-labs/agentboard/internal/userdata"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	statusPort int
	statusJSON bool
)

func init() {
	statusCmd.Flags().IntVar(&statusPort, "port", 0, "Only show the dashboard tracked for this port")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List tracked dashboard servers",
	Long: `List every dashboard server recorded under the run directory with its
liveness. Records pointing at processes that are gone are cleared.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := newSupervisor(cmd).Status(userdata.GetRunDir())
		if err != nil {
			return fmt.Errorf("reading dashboard state: %w", err)
		}
		if cmd.Flags().Changed("port") {
			rows = filterPort(rows, statusPort)
		}
		if statusJSON {
			return writeStatusJSON(cmd.OutOrStdout(), rows)
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No dashboards tracked.")
			return nil
		}
		writeStatusTable(cmd.OutOrStdout(), rows)
		return nil
	},
}

// statusRecord is the JSON shape of one status row.
type statusRecord struct {
	Port      int        `json:"port"`
	Status    string     `json:"status"`
	PID       int        `json:"pid,omitempty"`
	Host      string     `json:"host,omitempty"`
	Command   string     `json:"command,omitempty"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
	Issues    []string   `json:"issues,omitempty"`
}

func filterPort(rows []uiserver.TrackedServer, port int) []uiserver.TrackedServer {
	var out []uiserver.TrackedServer
	for _, r := range rows {
		if r.Port == port {
			out = append(out, r)
		}
	}
	return out
}

func writeStatusJSON(w io.Writer, rows []uiserver.TrackedServer) error {
	records := make([]statusRecord, 0, len(rows))
	for _, r := range rows {
		rec := statusRecord{Port: r.Port, Status: r.Status, Issues: r.Issues}
		if r.State != nil {
			started := r.State.StartedAt
			rec.PID = r.State.PID
			rec.Host = r.State.Host
			rec.Command = r.State.Command
			rec.StartedAt = &started
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeStatusTable(w io.Writer, rows []uiserver.TrackedServer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PORT", "STATUS", "PID", "ADDRESS", "COMMAND", "STARTED"})
	for _, r := range rows {
		pid, addr, command, started := "", "", "", ""
		if r.State != nil {
			pid = strconv.Itoa(r.State.PID)
			addr = r.State.Host + ":" + strconv.Itoa(r.State.Port)
			command = r.State.Command
			started = r.State.StartedAt.Local().Format(time.RFC3339)
		}
		table.Append([]string{strconv.Itoa(r.Port), r.Status, pid, addr, command, started})
	}
	table.Render()
}
