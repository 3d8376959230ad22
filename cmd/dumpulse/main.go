// Package main is the entry point for the dumpulse CLI.
//
// Dumpulse can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary and a
// small UDP client for talking to running daemons.
//
// Usage:
//
//	dumpulse serve -c config.yaml               # Start the daemon
//	dumpulse validate -c config.yaml            # Validate configuration
//	dumpulse query localhost:9060               # Print a health report
//	dumpulse set localhost:9060 -n 3 -v 1       # Set a variable
//	dumpulse checksum --hex f1030405            # Checksum a payload
//	dumpulse version                            # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "dumpulse",
	Short: "A tiny UDP heartbeat daemon",
	Long: `Dumpulse keeps a table of 64 heartbeat variables updated over UDP.

Peers send 8-byte set requests to record a value, a sender id and a
timestamp in one of the variables; anyone can send "AreyouOK" to get the
whole table back as a 260-byte health report.

Quick start:
  1. Run: dumpulse serve
  2. Run: dumpulse set localhost:9060 -n 3 -v 1
  3. Run: dumpulse query localhost:9060
  4. Open http://localhost:8080 in your browser

Example config:
  listen: ":9060"
  http_port: 8080
  stale_after: 60s
  variables:
    - id: 3
      name: Boiler`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
}

// loadEnvFile loads --env-file into the process environment so that
// ${VAR} references in config files can use it. Variables already set in
// the environment win.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this dumpulse binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dumpulse %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", "", "load environment variables from this file first")
	rootCmd.AddCommand(versionCmd)
}
