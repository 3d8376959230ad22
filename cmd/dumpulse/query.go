package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpalmerr/dumpulse/internal/client"
	"github.com/jpalmerr/dumpulse/pulse"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

// queryCmd fetches a health report from a running daemon.
var queryCmd = &cobra.Command{
	Use:   "query HOST:PORT",
	Short: "Print a daemon's health report",
	Long: `Send "AreyouOK" to a Dumpulse daemon and print the health report.

Only variables that hold a non-zero record are listed unless --all is
given. With --watch the report is fetched repeatedly; on a terminal the
screen is redrawn each time.

Example:
  dumpulse query localhost:9060
  dumpulse query localhost:9060 --json
  dumpulse query localhost:9060 --watch 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().Bool("json", false, "print the report as JSON")
	queryCmd.Flags().Bool("all", false, "list all 64 variables")
	queryCmd.Flags().Duration("watch", 0, "repeat the query at this interval")
	queryCmd.Flags().Duration("timeout", client.DefaultTimeout, "how long to wait for a reply")
}

// reportJSON is the --json output shape.
type reportJSON struct {
	Addr      string         `json:"addr"`
	Checksum  string         `json:"checksum"`
	LatencyMS float64        `json:"latency_ms"`
	Variables []variableJSON `json:"variables"`
}

type variableJSON struct {
	ID        int    `json:"id"`
	Timestamp uint16 `json:"timestamp"`
	Sender    uint8  `json:"sender"`
	Value     uint8  `json:"value"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	addr := args[0]
	flags := cmd.Flags()
	asJSON, _ := flags.GetBool("json")
	all, _ := flags.GetBool("all")
	watch, _ := flags.GetDuration("watch")
	timeout, _ := flags.GetDuration("timeout")

	c := client.NewClient(timeout)
	out := cmd.OutOrStdout()

	show := func(res client.Result) error {
		if asJSON {
			return writeReportJSON(out, addr, res, all)
		}
		writeReportText(out, addr, res, all)
		return nil
	}

	if watch <= 0 {
		report, err := c.Query(cmd.Context(), addr)
		if err != nil {
			return err
		}
		return show(client.Result{Report: report})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redraw := !asJSON && isTerminal(out)
	err := c.Watch(ctx, addr, watch, watchPrinter(out, redraw, show))
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// watchPrinter renders each watch result, printing query and output errors
// in place of the report so the loop keeps running.
func watchPrinter(out io.Writer, redraw bool, show func(client.Result) error) func(client.Result) {
	return func(res client.Result) {
		if redraw {
			fmt.Fprint(out, clearScreen)
		}
		err := res.Error
		if err == nil {
			err = show(res)
		}
		if err != nil {
			fmt.Fprintf(out, "%s  error: %v\n", res.At.Format(time.TimeOnly), err)
		}
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func selectedSlots(r pulse.Report, all bool) []variableJSON {
	var out []variableJSON
	for i, s := range r.Slots {
		if !all && s == (pulse.Slot{}) {
			continue
		}
		out = append(out, variableJSON{ID: i, Timestamp: s.Timestamp, Sender: s.Sender, Value: s.Value})
	}
	return out
}

func writeReportJSON(w io.Writer, addr string, res client.Result, all bool) error {
	vars := selectedSlots(res.Report, all)
	if vars == nil {
		vars = []variableJSON{}
	}
	return json.NewEncoder(w).Encode(reportJSON{
		Addr:      addr,
		Checksum:  fmt.Sprintf("%08x", res.Report.Checksum),
		LatencyMS: float64(res.Latency.Microseconds()) / 1000,
		Variables: vars,
	})
}

func writeReportText(w io.Writer, addr string, res client.Result, all bool) {
	fmt.Fprintf(w, "Health report from %s (checksum %08x checks OK)\n", addr, res.Report.Checksum)
	if res.Latency > 0 {
		fmt.Fprintf(w, "  latency: %s\n", res.Latency.Round(time.Microsecond))
	}

	vars := selectedSlots(res.Report, all)
	if len(vars) == 0 {
		fmt.Fprintln(w, "  no variables set")
		return
	}
	for _, v := range vars {
		fmt.Fprintf(w, "  v%-2d = %3d at %5d from %d\n", v.ID, v.Value, v.Timestamp, v.Sender)
	}
}
