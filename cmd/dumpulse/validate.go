package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/dumpulse/config"
)

// validateCmd validates a config file without starting the daemon.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a Dumpulse configuration file without starting the daemon.

This command parses the YAML, expands environment variables, and validates
all fields, including that no two variables share an id. It's useful for
CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  dumpulse validate -c config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	direct := len(cfg.Variables)
	grouped := 0
	for _, g := range cfg.Groups {
		grouped += g.Size()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Listen:      %s\n", cfg.Listen)
	if cfg.DisableHTTP {
		fmt.Fprintf(out, "  HTTP:        disabled\n")
	} else {
		fmt.Fprintf(out, "  HTTP port:   %d\n", cfg.HTTPPort)
	}
	fmt.Fprintf(out, "  Stale after: %s\n", cfg.StaleAfter.Duration())
	fmt.Fprintf(out, "  Variables:   %d direct + %d from groups = %d named\n",
		direct, grouped, direct+grouped)

	return nil
}
