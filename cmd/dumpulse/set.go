package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/dumpulse/internal/client"
)

// setCmd sends one set request.
var setCmd = &cobra.Command{
	Use:   "set HOST:PORT",
	Short: "Set a heartbeat variable",
	Long: `Send a set request to a Dumpulse daemon.

Set requests are not acknowledged; use "dumpulse query" to confirm. The
daemon silently rejects variables above 63.

Example:
  dumpulse set localhost:9060 -n 3 -v 1
  dumpulse set localhost:9060 --variable 12 --sender 7 --value 255`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().Uint8P("variable", "n", 0, "id of the variable to set (0-63)")
	setCmd.Flags().Uint8P("sender", "s", client.DefaultSender, "id of the sender")
	setCmd.Flags().Uint8P("value", "v", 0, "value to record (0-255, required)")
	_ = setCmd.MarkFlagRequired("value")
}

func runSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	variable, _ := flags.GetUint8("variable")
	sender, _ := flags.GetUint8("sender")
	value, _ := flags.GetUint8("value")

	if err := client.NewClient(0).Set(cmd.Context(), args[0], variable, sender, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "sent v%d = %d from %d to %s\n", variable, value, sender, args[0])
	return nil
}
