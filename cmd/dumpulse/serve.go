package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/dumpulse"
	"github.com/jpalmerr/dumpulse/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the Dumpulse daemon.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the heartbeat daemon",
	Long: `Start the Dumpulse daemon.

The daemon will:
  - Load configuration from the YAML file, if one is given
  - Answer set and query requests on the UDP listen address
  - Serve the dashboard UI on the HTTP port

Flags override the corresponding config file values. The daemon runs
until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  dumpulse serve
  dumpulse serve -c /etc/dumpulse/config.yaml
  dumpulse serve --listen :9999 --http-port 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().String("listen", "", "UDP listen address (default :9060)")
	serveCmd.Flags().Int("http-port", 0, "dashboard port (default 8080)")
	serveCmd.Flags().Bool("no-http", false, "disable the dashboard and API")
	serveCmd.Flags().String("log-level", "", "debug, info, warn or error (default info)")
}

// loadServeConfig reads the config file if given, otherwise parses an empty
// document so defaults apply, then applies flag overrides.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Parse(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.Listen, _ = flags.GetString("listen")
	}
	if flags.Changed("http-port") {
		cfg.HTTPPort, _ = flags.GetInt("http-port")
	}
	if flags.Changed("no-http") {
		cfg.DisableHTTP, _ = flags.GetBool("no-http")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(config.Level(cfg.LogLevel))

	logger.Info("config loaded",
		"variables", len(cfg.Variables),
		"groups", len(cfg.Groups),
	)

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, dumpulse.WithLogger(logger))

	d, err := dumpulse.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("daemon error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("daemon error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
