package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jpalmerr/dumpulse"
)

// BuildVariables converts parsed configuration into SDK Variable objects.
//
// It processes both single variables and groups, returning a combined
// slice. Group dimensions are expanded via cartesian product.
func BuildVariables(cfg *Config) ([]dumpulse.Variable, error) {
	var vars []dumpulse.Variable

	for _, vc := range cfg.Variables {
		var opts []dumpulse.VariableOption
		if len(vc.Labels) > 0 {
			opts = append(opts, dumpulse.WithLabels(mapToKeyValuePairs(vc.Labels)...))
		}
		if vc.StaleAfter != 0 {
			opts = append(opts, dumpulse.WithVariableStaleAfter(vc.StaleAfter.Duration()))
		}

		v, err := dumpulse.NewVariable(vc.ID, vc.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vc.Name, err)
		}
		vars = append(vars, v)
	}

	for _, gc := range cfg.Groups {
		opts := []dumpulse.GroupOption{
			dumpulse.WithFirstID(gc.FirstID),
			dumpulse.WithDimensions(gc.Dimensions),
		}
		if len(gc.Labels) > 0 {
			opts = append(opts, dumpulse.WithGroupLabels(mapToKeyValuePairs(gc.Labels)...))
		}
		if gc.StaleAfter != 0 {
			opts = append(opts, dumpulse.WithGroupStaleAfter(gc.StaleAfter.Duration()))
		}

		group, err := dumpulse.NewVariableGroup(gc.Name, opts...)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", gc.Name, err)
		}
		vars = append(vars, group...)
	}

	return vars, nil
}

// BuildOptions converts parsed configuration into Daemon options.
//
// The logger is not included; callers pass [dumpulse.WithLogger] with a
// handler built from [Config.LogLevel].
func BuildOptions(cfg *Config) ([]dumpulse.Option, error) {
	vars, err := BuildVariables(cfg)
	if err != nil {
		return nil, err
	}

	opts := []dumpulse.Option{
		dumpulse.WithListenAddr(cfg.Listen),
		dumpulse.WithHTTPPort(cfg.HTTPPort),
		dumpulse.WithStaleAfter(cfg.StaleAfter.Duration()),
		dumpulse.WithSweepInterval(cfg.SweepInterval.Duration()),
		dumpulse.WithVariables(vars...),
	}
	if cfg.Title != "" {
		opts = append(opts, dumpulse.WithTitle(cfg.Title))
	}
	if cfg.DisableHTTP {
		opts = append(opts, dumpulse.WithoutHTTP())
	}
	return opts, nil
}

// Level maps a log_level string to a [slog.Level]. Unknown values map to info.
func Level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
