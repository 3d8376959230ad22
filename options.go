package dumpulse

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jpalmerr/dumpulse/pulse"
)

// daemonConfig holds mutable state during Daemon construction.
type daemonConfig struct {
	title           string
	listenAddr      string
	httpPort        int
	httpDisabled    bool
	logger          *slog.Logger
	clock           pulse.Clock
	staleAfter      time.Duration
	sweepInterval   time.Duration
	variables       []Variable
	updateCallbacks []func(VariableUpdate)
}

// Option configures a [Daemon] during construction.
//
// Options return an error if validation fails.
type Option func(*daemonConfig) error

// WithListenAddr sets the UDP address requests are read from.
// Defaults to ":9060". Use port 0 to pick a free port.
func WithListenAddr(addr string) Option {
	return func(cfg *daemonConfig) error {
		if strings.TrimSpace(addr) == "" {
			return errors.New("listen address cannot be empty")
		}
		cfg.listenAddr = addr
		return nil
	}
}

// WithHTTPPort sets the TCP port for the dashboard and API.
// Defaults to 8080. Port 0 picks a free port.
//
// Returns an error if the port is outside 0-65535.
func WithHTTPPort(port int) Option {
	return func(cfg *daemonConfig) error {
		if port < 0 || port > 65535 {
			return errors.New("port must be between 0 and 65535")
		}
		cfg.httpPort = port
		return nil
	}
}

// WithoutHTTP disables the dashboard and API; only UDP is served.
func WithoutHTTP() Option {
	return func(cfg *daemonConfig) error {
		cfg.httpDisabled = true
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Daemon.
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *daemonConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock sets the timestamp source recorded with accepted sets and used
// to judge freshness. Defaults to the low 16 bits of the Unix time in
// seconds.
//
// Returns an error if clock is nil.
func WithClock(clock pulse.Clock) Option {
	return func(cfg *daemonConfig) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = clock
		return nil
	}
}

// WithTitle sets the dashboard title. Defaults to "Dumpulse".
func WithTitle(title string) Option {
	return func(cfg *daemonConfig) error {
		cfg.title = title
		return nil
	}
}

// WithVariable names a slot. Can be called multiple times.
func WithVariable(v Variable) Option {
	return func(cfg *daemonConfig) error {
		cfg.variables = append(cfg.variables, v)
		return nil
	}
}

// WithVariables names several slots at once, e.g. the output of
// [NewVariableGroup].
func WithVariables(vs ...Variable) Option {
	return func(cfg *daemonConfig) error {
		cfg.variables = append(cfg.variables, vs...)
		return nil
	}
}

// WithStaleAfter sets the default freshness window. A variable whose last
// set is older than this is reported as [StatusStale]. Defaults to 60s.
//
// Returns an error unless 1s <= d <= 65535s.
func WithStaleAfter(d time.Duration) Option {
	return func(cfg *daemonConfig) error {
		if err := validateStaleAfter(d); err != nil {
			return err
		}
		cfg.staleAfter = d
		return nil
	}
}

// WithSweepInterval sets how often freshness is re-evaluated.
// Defaults to 1s.
//
// Returns an error if the duration is zero or negative.
func WithSweepInterval(d time.Duration) Option {
	return func(cfg *daemonConfig) error {
		if d <= 0 {
			return errors.New("sweep interval must be positive")
		}
		cfg.sweepInterval = d
		return nil
	}
}

// WithUpdateCallback registers a function called for every accepted set and
// every status transition.
//
// Callbacks run synchronously on the packet or sweep goroutine after the
// daemon's lock is released; they must not block. Panics are recovered and
// logged. Nil callbacks are ignored.
func WithUpdateCallback(cb func(VariableUpdate)) Option {
	return func(cfg *daemonConfig) error {
		if cb == nil {
			return nil
		}
		cfg.updateCallbacks = append(cfg.updateCallbacks, cb)
		return nil
	}
}
