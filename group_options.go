package dumpulse

import (
	"errors"
	"fmt"
	"time"

	"github.com/jpalmerr/dumpulse/pulse"
)

// groupConfig holds configuration during variable group construction.
type groupConfig struct {
	firstID      int
	dimensions   map[string][]string
	staticLabels map[string]string
	staleAfter   time.Duration
}

// GroupOption configures [NewVariableGroup].
type GroupOption func(*groupConfig) error

// WithFirstID sets the id assigned to the first combination.
//
// Returns an error if id is outside 0-63.
func WithFirstID(id int) GroupOption {
	return func(cfg *groupConfig) error {
		if id < 0 || id >= pulse.NumVariables {
			return fmt.Errorf("first id must be between 0 and %d, got %d", pulse.NumVariables-1, id)
		}
		cfg.firstID = id
		return nil
	}
}

// WithDimensions sets the dimension values for cartesian product expansion.
//
// Returns an error if the map is empty, any dimension has no values,
// or any value is an empty string.
func WithDimensions(dims map[string][]string) GroupOption {
	return func(cfg *groupConfig) error {
		if len(dims) == 0 {
			return errors.New("at least one dimension required")
		}
		for k, vals := range dims {
			if len(vals) == 0 {
				return fmt.Errorf("dimension '%s' has no values", k)
			}
			for i, v := range vals {
				if v == "" {
					return fmt.Errorf("dimension '%s' contains empty value at index %d", k, i)
				}
			}
		}
		cfg.dimensions = dims
		return nil
	}
}

// WithGroupLabels adds static labels to all generated variables.
// On collision, static labels take precedence over dimension labels.
//
// Returns an error if an odd number of arguments is provided.
func WithGroupLabels(keyValues ...string) GroupOption {
	return func(cfg *groupConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithGroupLabels requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.staticLabels[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithGroupStaleAfter sets the freshness window of all generated variables.
func WithGroupStaleAfter(d time.Duration) GroupOption {
	return func(cfg *groupConfig) error {
		if err := validateStaleAfter(d); err != nil {
			return err
		}
		cfg.staleAfter = d
		return nil
	}
}
