package dumpulse

import (
	"errors"
	"time"
)

// maxStaleAfter is the longest freshness window that can be measured with
// 16-bit second timestamps.
const maxStaleAfter = (1<<16 - 1) * time.Second

// variableConfig holds mutable state during variable construction.
type variableConfig struct {
	labels     map[string]string
	staleAfter time.Duration
}

// VariableOption configures a [Variable] during construction.
type VariableOption func(*variableConfig) error

// WithLabels adds metadata labels to the variable.
//
// Accepts variadic key-value pairs. Returns an error if an odd number of
// arguments is provided.
func WithLabels(keyValues ...string) VariableOption {
	return func(cfg *variableConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithLabels requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.labels[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithVariableStaleAfter overrides the daemon-wide freshness window for
// one variable.
//
// Returns an error unless 1s <= d <= 65535s.
func WithVariableStaleAfter(d time.Duration) VariableOption {
	return func(cfg *variableConfig) error {
		if err := validateStaleAfter(d); err != nil {
			return err
		}
		cfg.staleAfter = d
		return nil
	}
}

func validateStaleAfter(d time.Duration) error {
	if d < time.Second {
		return errors.New("stale-after must be at least 1s")
	}
	if d > maxStaleAfter {
		return errors.New("stale-after must not exceed 65535s")
	}
	return nil
}
